package property

import "context"

// Direction tells whether a property feeds an algorithm or receives a result.
type Direction int

const (
	Input Direction = iota
	Output
	InOut
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	case InOut:
		return "InOut"
	default:
		return "Unknown"
	}
}

// Property is a single named configuration value.
type Property interface {
	// Name returns the name the property was declared with.
	Name() string

	// Direction returns whether the property is an input or output.
	Direction() Direction

	// Value returns the current value as a string.
	Value() string

	// SetValue parses and assigns the value.
	// Returns *TypeError if it cannot be parsed and *ValidationError if the
	// validator rejects it; in both cases the previous value is kept.
	SetValue(value string) error

	// IsValid returns an empty string when the current value is acceptable,
	// otherwise a description of the problem.
	IsValid() string

	// IsDefault reports whether the value was never set.
	IsDefault() bool

	// Documentation returns the help text.
	Documentation() string
}

// Storable is implemented by properties that can publish an artifact.
type Storable interface {
	// Store publishes the property's artifact.
	// Returns true if something was actually stored.
	Store(ctx context.Context) (bool, error)
}

// Resolver is implemented by properties that must look something up
// before their validity can be judged.
type Resolver interface {
	Resolve(ctx context.Context) error
}

// Problem describes one invalid property.
type Problem struct {
	Property string
	Message  string
}
