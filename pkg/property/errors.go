package property

import (
	"errors"
	"fmt"
)

// Manager errors.
var (
	// ErrNotFound is returned when a property name is not declared.
	ErrNotFound = errors.New("property: not found")

	// ErrDuplicate is returned when a property name is declared twice.
	ErrDuplicate = errors.New("property: already declared")

	// ErrEmptyName is returned when a property is declared without a name.
	ErrEmptyName = errors.New("property: empty name")
)

// TypeError is returned when a string cannot be converted to the property type.
type TypeError struct {
	Property string
	Value    string
	Type     string
	Err      error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("property %s: cannot convert %q to %s", e.Property, e.Value, e.Type)
}

func (e *TypeError) Unwrap() error { return e.Err }

// ValidationError is returned when a parsed value is rejected by the validator.
type ValidationError struct {
	Property string
	Value    string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("property %s: invalid value %q: %s", e.Property, e.Value, e.Message)
}
