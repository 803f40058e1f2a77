package core

import "fmt"

var (
	// ErrMissingField is returned when a field required for persistence is
	// absent. Wrapped by FieldError to carry the field name.
	ErrMissingField = fmt.Errorf("required field missing")

	// ErrDimensionMismatch is returned when a content vector's length does
	// not equal the index's configured dimensionality. Wrapped by
	// DimensionError to carry the observed sizes.
	ErrDimensionMismatch = fmt.Errorf("vector dimension mismatch")
)

// FieldError reports which persisted field failed validation.
type FieldError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string { return fmt.Sprintf("%v: %s", e.Err, e.Field) }

// Unwrap exposes the sentinel for errors.Is checks.
func (e *FieldError) Unwrap() error { return e.Err }

// DimensionError reports a vector dimensionality mismatch.
type DimensionError struct {
	Want, Got int
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: want %d, got %d", ErrDimensionMismatch, e.Want, e.Got)
}

// Unwrap exposes the sentinel for errors.Is checks.
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }
