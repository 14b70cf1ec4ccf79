package request

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when an override names a field the kind does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotNullable is returned when nil is assigned to a required field.
	ErrNotNullable = errors.New("field is not nullable")

	// ErrInvalidEngine is returned for malformed compound engine ids.
	ErrInvalidEngine = errors.New("invalid engine")
)

// FieldError reports a construction-time validation failure for one field.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value for field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
