package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed synchronizer error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so wrapped clones compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the roster synchronizer.
var (
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFoundLocal   = New("NOT_FOUND_LOCAL", http.StatusNotFound, "student not present in local roster")
	ErrRemoteRejected  = New("REMOTE_REJECTED", http.StatusBadGateway, "remote rejected the request")
	ErrTransport       = New("TRANSPORT_FAILURE", http.StatusServiceUnavailable, "remote unreachable")
	ErrUnexpectedShape = New("UNEXPECTED_SHAPE", http.StatusBadGateway, "unexpected response shape")
	ErrTooLarge        = New("RESPONSE_TOO_LARGE", http.StatusBadGateway, "remote response too large")
	ErrOperationFailed = New("OPERATION_FAILED", http.StatusUnprocessableEntity, "operation failed")
	ErrInternal        = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
