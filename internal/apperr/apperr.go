package apperr

import (
	"errors"
	"net/http"
)

// Error kinds. Compare with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateAccount   = errors.New("duplicate account")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error is a client-facing failure. Message is safe to return in a response body.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error { return New(ErrValidation, message) }

func NotFound(message string) *Error { return New(ErrNotFound, message) }

func Unauthorized() *Error { return New(ErrUnauthorized, "Unauthorized") }

// Status maps an error to the HTTP status it is reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicateAccount),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Errors that are not *Error
// never leak their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
