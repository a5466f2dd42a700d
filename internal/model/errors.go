package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no memory exists for the given id.
var ErrNotFound = errors.New("memory not found")

// ErrAlreadyInState is returned when an archive or unarchive transition is a
// no-op, so caller bugs surface instead of silently succeeding.
var ErrAlreadyInState = errors.New("memory already in requested state")

// ErrStorage marks failures of the durable medium. Fatal for the operation,
// never for the engine.
var ErrStorage = errors.New("storage error")

// ValidationError reports a malformed or out-of-range field. It is returned
// before any store mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
