package models

import (
	"encoding/json"
	"time"
)

// Severity of an outcome notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityFailure Severity = "failure"
)

// Operation names the synchronizer operation that produced an outcome.
type Operation string

const (
	OperationAdd    Operation = "add"
	OperationRate   Operation = "rate"
	OperationRemove Operation = "remove"
	OperationReload Operation = "reload"
)

// Notification categories, one per operation and outcome. The host UI replaces
// a visible notification when another one with the same category arrives.
const (
	CategoryAddError      = "ADD_STUDENT_ERROR"
	CategoryAddSuccess    = "ADD_STUDENT_SUCCESS"
	CategoryIllegalRating = "ILLEGAL_RATING_ERROR"
	CategoryRateError     = "RATE_STUDENT_ERROR"
	CategoryRateSuccess   = "RATE_STUDENT_SUCCESS"
	CategoryRemoveError   = "REMOVE_STUDENT_ERROR"
	CategoryRemoveSuccess = "REMOVE_STUDENT_SUCCESS"
	CategoryLoadError     = "LOAD_STUDENTS_ERROR"
)

// Notification is a structured outcome event emitted by the synchronizer.
// Timeout is encoded as milliseconds under "timeout".
type Notification struct {
	Severity  Severity      `json:"severity"`
	Message   string        `json:"message"`
	Category  string        `json:"category"`
	Timeout   time.Duration `json:"timeout"`
	Operation Operation     `json:"operation"`
	RequestID string        `json:"request_id,omitempty"`
	StudentID int64         `json:"student_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// MarshalJSON encodes Timeout in milliseconds.
func (n Notification) MarshalJSON() ([]byte, error) {
	type alias Notification
	return json.Marshal(struct {
		alias
		Timeout int64 `json:"timeout"`
	}{alias: alias(n), Timeout: n.Timeout.Milliseconds()})
}

// UnmarshalJSON reads a millisecond timeout.
func (n *Notification) UnmarshalJSON(data []byte) error {
	type alias Notification
	aux := struct {
		*alias
		Timeout int64 `json:"timeout"`
	}{alias: (*alias)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.Timeout = time.Duration(aux.Timeout) * time.Millisecond
	return nil
}

// Outcome is a journaled notification.
type Outcome struct {
	ID        string    `db:"id" json:"id"`
	Operation string    `db:"operation" json:"operation"`
	Severity  string    `db:"severity" json:"severity"`
	Category  string    `db:"category" json:"category"`
	Message   string    `db:"message" json:"message"`
	StudentID *int64    `db:"student_id" json:"student_id,omitempty"`
	RequestID *string   `db:"request_id" json:"request_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OutcomeFromNotification converts n into its journal row.
func OutcomeFromNotification(n Notification) Outcome {
	o := Outcome{
		Operation: string(n.Operation),
		Severity:  string(n.Severity),
		Category:  n.Category,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if n.StudentID != 0 {
		id := n.StudentID
		o.StudentID = &id
	}
	if n.RequestID != "" {
		reqID := n.RequestID
		o.RequestID = &reqID
	}
	return o
}
