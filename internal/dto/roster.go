package dto

// AddStudentRequest is the bridge payload for creating a student. Field
// contents are passed through unchecked; the form owns input validation.
type AddStudentRequest struct {
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Schoolclass string `json:"schoolclass"`
	Subject     string `json:"subject"`
}

// RateStudentRequest carries the new rating. Range checks happen in the
// synchronizer so an illegal rating still produces its notification.
type RateStudentRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

// ConfirmationsRequest toggles success notifications.
type ConfirmationsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ConfirmationsResponse reports the flag.
type ConfirmationsResponse struct {
	Enabled bool `json:"enabled"`
}
