package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups of patients or bills that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadySettled marks payment attempts against a bill whose status
	// is Paid. Settled is terminal.
	ErrAlreadySettled = errors.New("bill already settled")

	// ErrValidation is the class sentinel every ValidationError matches, so
	// callers can test errors.Is(err, ErrValidation) without caring which
	// field failed.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports one rejected input field and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalidf builds a ValidationError with a formatted reason.
func Invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
