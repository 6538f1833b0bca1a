package algorithm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bft-labs/mantle/pkg/property"
)

// Lifecycle errors. Check them with errors.Is.
var (
	// ErrNotInitialized is returned when Execute or Finalize is called
	// before a successful Initialize.
	ErrNotInitialized = errors.New("algorithm: not initialized")

	// ErrAlreadyFinalized is returned when Finalize is called twice.
	ErrAlreadyFinalized = errors.New("algorithm: already finalized")

	// ErrInvalidProperties matches any *PropertyValidationError.
	ErrInvalidProperties = errors.New("algorithm: some invalid properties found")

	// ErrLogic marks a computation error as a logic error rather than a
	// runtime error. Wrap it, or use LogicError.
	ErrLogic = errors.New("logic error")

	// ErrEmptyName is returned when a child is requested without a name.
	ErrEmptyName = errors.New("algorithm: empty algorithm name")

	// ErrNoFactory is returned when a child is requested from an algorithm
	// that was built without a factory.
	ErrNoFactory = errors.New("algorithm: no factory configured")
)

// Lifecycle phases reported by UnknownFailure.
const (
	PhaseInitialize = "initialize"
	PhaseExecute    = "execute"
	PhaseFinalize   = "finalize"
)

// StateError reports a call made out of lifecycle order.
type StateError struct {
	Algorithm string
	Op        string
	Err       error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Algorithm, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// PropertyValidationError lists every invalid property found before
// execution. The Run hook is never invoked when it is returned.
type PropertyValidationError struct {
	Algorithm string
	Problems  []property.Problem

	// Err is set when a property could not be resolved at all.
	Err error
}

func (e *PropertyValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "some invalid properties found in %s", e.Algorithm)
	for i, p := range e.Problems {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s (%s)", p.Property, p.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is matches ErrInvalidProperties.
func (e *PropertyValidationError) Is(target error) bool {
	return target == ErrInvalidProperties
}

func (e *PropertyValidationError) Unwrap() error { return e.Err }

// Kind classifies a recognized computation error.
type Kind int

const (
	KindRuntime Kind = iota
	KindLogic
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRuntime:
		return "runtime"
	case KindLogic:
		return "logic"
	default:
		return "unknown"
	}
}

// ComputationError wraps an error returned by a Run hook.
type ComputationError struct {
	Algorithm string
	Kind      Kind

	// Propagated is true when the error was returned to the caller rather
	// than swallowed.
	Propagated bool

	Err error
}

func newComputationError(name string, err error, propagated bool) *ComputationError {
	kind := KindRuntime
	if errors.Is(err, ErrLogic) {
		kind = KindLogic
	}
	return &ComputationError{Algorithm: name, Kind: kind, Propagated: propagated, Err: err}
}

func (e *ComputationError) Error() string {
	if e.Kind == KindLogic {
		return fmt.Sprintf("logic error in execution of algorithm %s: %v", e.Algorithm, e.Err)
	}
	return fmt.Sprintf("error in execution of algorithm %s: %v", e.Algorithm, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// LogicError creates an error that classifies as KindLogic.
func LogicError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrLogic, fmt.Sprintf(format, args...))
}

// UnknownFailure is an unclassified failure: a panic in a hook, or an
// error explicitly marked with Unclassified. It is never swallowed.
type UnknownFailure struct {
	Algorithm string
	Phase     string
	Value     any
	Stack     []byte
}

func (e *UnknownFailure) Error() string {
	return fmt.Sprintf("unknown failure in %s of %s: %v", e.Phase, e.Algorithm, e.Value)
}

// Unwrap returns Value when it is an error.
func (e *UnknownFailure) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Unclassified marks err as an unknown failure.
func Unclassified(err error) error {
	if err == nil {
		return nil
	}
	return &UnknownFailure{Value: err}
}

// PersistenceError is returned when the output workspace of a top-level
// algorithm cannot be stored.
type PersistenceError struct {
	Algorithm string
	Property  string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("error storing output workspace %s of %s: %v", e.Property, e.Algorithm, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
