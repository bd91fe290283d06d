package web

import (
	"errors"
	"net/http"
)

// Error carries an HTTP status alongside the underlying error.
type Error struct {
	Err    error
	Status int
}

// NewRequestError wraps err with the status the client should see.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the status attached to err, or 500 when err carries none.
func StatusOf(err error) int {
	var webErr *Error
	if errors.As(err, &webErr) && webErr.Status != 0 {
		return webErr.Status
	}
	return http.StatusInternalServerError
}
