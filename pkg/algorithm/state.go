package algorithm

import "time"

// State represents the lifecycle state of an algorithm.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateExecuted
	StateFinalized
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitialized:
		return "Initialized"
	case StateExecuted:
		return "Executed"
	case StateFinalized:
		return "Finalized"
	default:
		return "Unknown"
	}
}

// Outcome classifies how a call to Execute ended.
type Outcome int

const (
	// OutcomeSucceeded means the Run hook returned nil.
	OutcomeSucceeded Outcome = iota

	// OutcomeRecovered means the Run hook failed but the error was swallowed.
	OutcomeRecovered

	// OutcomeFailed means a computation or persistence error was returned.
	OutcomeFailed

	// OutcomeRejected means Execute refused to run the hook.
	OutcomeRejected

	// OutcomeUnknown means an unclassified failure was returned.
	OutcomeUnknown
)

// String returns the lowercase outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRecovered:
		return "recovered"
	case OutcomeFailed:
		return "failed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Algorithm string
	Version   int
	ID        string
	Child     bool
	Previous  State
	Current   State
	Reason    string
}

// ExecutionEvent describes a finished call to Execute.
type ExecutionEvent struct {
	Algorithm string
	Version   int
	ID        string
	Child     bool
	Outcome   Outcome
	Duration  time.Duration
	Err       error
}

// EventEmitter is called when an algorithm changes state.
// It is called synchronously on the goroutine driving the algorithm.
type EventEmitter interface {
	OnStateChange(event StateChangeEvent)
}

// ExecutionObserver is called after every call to Execute.
type ExecutionObserver interface {
	OnExecute(event ExecutionEvent)
}
