package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates the caller supplied invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the target row is absent or not owned by the
	// acting user. The two cases are deliberately indistinguishable so an
	// unauthorized caller cannot probe for existence.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation (duplicate email,
	// duplicate project name for the same owner).
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials indicates a failed secret verification
	// (login, password rotation, account deletion).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInternal indicates an unexpected storage or hashing failure.
	ErrInternal = errors.New("internal error")
)

// ValidationError carries the field and reason of a validation failure.
// It unwraps to ErrValidation so callers can test the kind with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError names the field whose uniqueness constraint was violated.
// It unwraps to ErrConflict.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already in use", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// IsValidation checks whether the error is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound checks whether the error is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks whether the error is a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidCredentials checks whether the error is a failed secret check.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
