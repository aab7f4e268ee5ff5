package record

import (
	"errors"
	"fmt"
)

// ErrValidation is the category shared by every field-level failure.
var ErrValidation = errors.New("validation failed")

// Field-level error kinds. Each one wraps ErrValidation, so callers can test
// either for the exact kind or for the whole category with errors.Is.
var (
	ErrInvalidID       = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidName     = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrInvalidBilling  = fmt.Errorf("%w: invalid billing", ErrValidation)
	ErrInvalidLocation = fmt.Errorf("%w: invalid location", ErrValidation)
)

// FieldError describes why a single raw value was rejected.
type FieldError struct {
	// Field is the header name of the rejected column (e.g. "Email").
	Field string

	// Value is the raw value as text, for logs and error reports.
	Value string

	// Message is the human-readable rule that was violated.
	Message string

	// Kind is one of the ErrInvalid* sentinels.
	Kind error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s. Got: %s", e.Message, e.Value)
}

// Unwrap exposes the error kind to errors.Is / errors.As.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

func newFieldError(kind error, field string, raw any, message string) *FieldError {
	return &FieldError{
		Field:   field,
		Value:   describe(raw),
		Message: message,
		Kind:    kind,
	}
}

// describe renders a raw value for an error message. Nil is shown explicitly
// so that an absent cell is distinguishable from an empty string.
func describe(raw any) string {
	if raw == nil {
		return "<nil>"
	}
	return fmt.Sprint(raw)
}
