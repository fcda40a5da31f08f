package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every field-specific validation error below wraps it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or not positive.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)

	// ErrInvalidTaskStatus is returned when a task status is outside the enumeration.
	ErrInvalidTaskStatus = fmt.Errorf("%w: invalid task status", ErrValidation)

	// ErrEmptyUsername is returned when a user has no username.
	ErrEmptyUsername = fmt.Errorf("%w: username cannot be empty", ErrValidation)

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)

	// ErrEmptyPassword is returned when neither a plaintext nor a hashed password is present.
	ErrEmptyPassword = fmt.Errorf("%w: password cannot be empty", ErrValidation)

	// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes long", ErrValidation)
)

// ValidationError carries the offending field alongside the underlying error.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error. A ValidationError without one still
// matches ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}
