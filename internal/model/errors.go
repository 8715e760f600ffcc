package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when an operation runs without a caller.
	ErrUnauthenticated = errors.New("no authenticated user")
	// ErrPermissionDenied is fatal: retrying will not help.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrStoreUnavailable is a transient backend failure; the call may be retried.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrWriteFailed is a write the store rejected.
	ErrWriteFailed = errors.New("write failed")
	// ErrEmptyMessage is returned by Send for blank text; nothing is stored.
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrNoSpeech is returned for a blank practice transcript.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrRateLimited is returned when a caller sends too fast.
	ErrRateLimited = errors.New("rate limited")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
