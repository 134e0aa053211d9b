// Package common defines sentinel errors shared by the repository, service
// and transport layers of the attendance service. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrorAlreadyExists  = errors.New("already exists")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrHashing        = errors.New("password hashing failed")

	// Auth errors (malformed, badly signed or expired token).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError describes rejected client input. Message is safe to return
// to the client verbatim. It matches ErrorValidation under errors.Is.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
