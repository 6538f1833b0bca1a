package property

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Validator checks a typed value.
// Check returns an empty string for acceptable values.
type Validator[T any] interface {
	Check(value T) string
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(value T) string

// Check calls f.
func (f ValidatorFunc[T]) Check(value T) string { return f(value) }

// Bounded accepts values within [Lower, Upper]. Nil bounds are open.
type Bounded[T cmp.Ordered] struct {
	Lower *T
	Upper *T
}

// Between returns a Bounded validator with both bounds set.
func Between[T cmp.Ordered](lower, upper T) Bounded[T] {
	return Bounded[T]{Lower: &lower, Upper: &upper}
}

// AtLeast returns a Bounded validator with only a lower bound.
func AtLeast[T cmp.Ordered](lower T) Bounded[T] {
	return Bounded[T]{Lower: &lower}
}

// Check implements Validator.
func (b Bounded[T]) Check(value T) string {
	if b.Lower != nil && value < *b.Lower {
		return fmt.Sprintf("selected value %v is < the lower bound (%v)", value, *b.Lower)
	}
	if b.Upper != nil && value > *b.Upper {
		return fmt.Sprintf("selected value %v is > the upper bound (%v)", value, *b.Upper)
	}
	return ""
}

// Mandatory rejects empty strings.
type Mandatory struct{}

// Check implements Validator.
func (Mandatory) Check(value string) string {
	if strings.TrimSpace(value) == "" {
		return "a value must be entered for this parameter"
	}
	return ""
}

// NonEmpty rejects empty lists.
type NonEmpty[T any] struct{}

// Check implements Validator.
func (NonEmpty[T]) Check(value []T) string {
	if len(value) == 0 {
		return "a value must be entered for this parameter"
	}
	return ""
}

// OneOf accepts only the listed values.
type OneOf[T comparable] struct {
	Allowed []T
}

// Check implements Validator.
func (o OneOf[T]) Check(value T) string {
	if slices.Contains(o.Allowed, value) {
		return ""
	}
	return fmt.Sprintf("the value %v is not in the list of allowed values %v", value, o.Allowed)
}
