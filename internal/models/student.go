package models

// Rating bounds. Zero means the student has not been rated yet.
const (
	MinRating = 0
	MaxRating = 5
)

// Student is one roster entry as served by the student API.
type Student struct {
	ID          int64  `json:"id,omitempty"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Schoolclass string `json:"schoolclass"`
	Subject     string `json:"subject"`
	Rating      int    `json:"rating"`
}

// FullName joins first and last name for user-facing messages.
func (s Student) FullName() string {
	switch {
	case s.Firstname == "":
		return s.Lastname
	case s.Lastname == "":
		return s.Firstname
	}
	return s.Firstname + " " + s.Lastname
}

// Payload returns the mutable fields sent on create and update.
func (s Student) Payload() StudentPayload {
	return StudentPayload{
		Firstname:   s.Firstname,
		Lastname:    s.Lastname,
		Schoolclass: s.Schoolclass,
		Subject:     s.Subject,
		Rating:      s.Rating,
	}
}

// StudentPayload is the request body for POST and PUT. Server-managed fields,
// the id included, are never sent.
type StudentPayload struct {
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Schoolclass string `json:"schoolclass"`
	Subject     string `json:"subject"`
	Rating      int    `json:"rating"`
}
