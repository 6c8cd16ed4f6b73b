package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or inconsistent input. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a referenced entry, group, user or participant that does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes which input was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError names the kind and ID of the missing record.
type NotFoundError struct {
	Kind string // "entry", "group", "user", "participant"
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "participant" {
		return fmt.Sprintf("no such participant: %s", e.ID)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
