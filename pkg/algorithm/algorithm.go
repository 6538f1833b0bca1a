package algorithm

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/log"
	"github.com/bft-labs/mantle/pkg/property"
)

// Hooks is implemented by every concrete algorithm.
//
// SetUp declares properties and runs once per instance. Run performs the
// computation and may create and execute child algorithms. TearDown
// releases resources; it runs after every child has been finalized.
type Hooks interface {
	Name() string
	Version() int
	Category() string
	SetUp(a *Algorithm) error
	Run(ctx context.Context, a *Algorithm) error
	TearDown(a *Algorithm) error
}

// Factory creates fresh, uninitialized algorithms by name.
// A version of -1 selects the highest registered version.
type Factory interface {
	Create(name string, version int) (*Algorithm, error)
}

// environment is the set of collaborators a child inherits from its parent.
type environment struct {
	logger   log.Logger
	factory  Factory
	store    artifact.Store
	emitter  EventEmitter
	observer ExecutionObserver
	tracer   trace.Tracer
}

// Algorithm drives a Hooks implementation through its lifecycle.
//
// An Algorithm is not safe for concurrent use. A parent and its children
// run on the goroutine that called Execute.
type Algorithm struct {
	hooks Hooks
	id    string
	props *property.Manager
	env   environment

	children []*Algorithm

	initialized bool
	executed    bool
	finalized   bool
	child       bool

	// propagate overrides the default propagation policy when set.
	propagate *bool
}

// Option configures an Algorithm.
type Option func(*Algorithm)

// WithLogger sets the logger. Defaults to log.NoopLogger.
func WithLogger(l log.Logger) Option {
	return func(a *Algorithm) {
		if l != nil {
			a.env.logger = l
		}
	}
}

// WithFactory sets the factory used to create child algorithms.
func WithFactory(f Factory) Option {
	return func(a *Algorithm) { a.env.factory = f }
}

// WithArtifactStore sets the store that workspace properties read from and
// publish to. Defaults to a private in-memory store.
func WithArtifactStore(s artifact.Store) Option {
	return func(a *Algorithm) {
		if s != nil {
			a.env.store = s
		}
	}
}

// WithEventEmitter sets the receiver of state change events.
func WithEventEmitter(e EventEmitter) Option {
	return func(a *Algorithm) { a.env.emitter = e }
}

// WithExecutionObserver sets the receiver of execution events.
func WithExecutionObserver(o ExecutionObserver) Option {
	return func(a *Algorithm) { a.env.observer = o }
}

// WithTracer sets the OpenTelemetry tracer used by Execute.
func WithTracer(t trace.Tracer) Option {
	return func(a *Algorithm) {
		if t != nil {
			a.env.tracer = t
		}
	}
}

// WithPropagateOnFailure overrides the propagation policy.
func WithPropagateOnFailure(propagate bool) Option {
	return func(a *Algorithm) { a.propagate = &propagate }
}

// New wraps h in an uninitialized Algorithm.
func New(h Hooks, opts ...Option) *Algorithm {
	a := &Algorithm{
		hooks: h,
		id:    uuid.NewString(),
		props: property.NewManager(),
		env: environment{
			logger: log.NoopLogger{},
			tracer: noop.NewTracerProvider().Tracer(""),
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.env.store == nil {
		a.env.store = artifact.NewMemoryStore()
	}
	return a
}

// Name returns the algorithm name.
func (a *Algorithm) Name() string { return a.hooks.Name() }

// Version returns the algorithm version.
func (a *Algorithm) Version() int { return a.hooks.Version() }

// Category returns the algorithm category.
func (a *Algorithm) Category() string { return a.hooks.Category() }

// ID returns the instance identifier.
func (a *Algorithm) ID() string { return a.id }

// Hooks returns the wrapped implementation.
func (a *Algorithm) Hooks() Hooks { return a.hooks }

// IsInitialized reports whether Initialize has succeeded.
func (a *Algorithm) IsInitialized() bool { return a.initialized }

// IsExecuted reports whether the last Execute completed.
func (a *Algorithm) IsExecuted() bool { return a.executed }

// IsFinalized reports whether Finalize has succeeded.
func (a *Algorithm) IsFinalized() bool { return a.finalized }

// IsChild reports whether the algorithm was created by a parent.
func (a *Algorithm) IsChild() bool { return a.child }

// State returns the current lifecycle state.
func (a *Algorithm) State() State {
	switch {
	case a.finalized:
		return StateFinalized
	case a.executed:
		return StateExecuted
	case a.initialized:
		return StateInitialized
	default:
		return StateUninitialized
	}
}

// PropagatesOnFailure reports whether recognized computation errors are
// returned from Execute. Children propagate unless overridden.
func (a *Algorithm) PropagatesOnFailure() bool {
	if a.propagate != nil {
		return *a.propagate
	}
	return a.child
}

// SetPropagateOnFailure overrides the propagation policy.
func (a *Algorithm) SetPropagateOnFailure(propagate bool) {
	a.propagate = &propagate
}

// Logger returns a logger carrying the algorithm's identity.
func (a *Algorithm) Logger() log.Logger {
	return log.With(a.env.logger,
		log.String("algorithm", a.Name()),
		log.Int("version", a.Version()),
		log.String("id", a.id),
		log.Bool("child", a.child),
	)
}

// ArtifactStore returns the store used by workspace properties.
func (a *Algorithm) ArtifactStore() artifact.Store { return a.env.store }

// Properties returns the property manager.
func (a *Algorithm) Properties() *property.Manager { return a.props }

// Declare adds a property. Call it from SetUp.
func (a *Algorithm) Declare(p property.Property) error {
	return a.props.Declare(p)
}

// DeclareWorkspace adds a workspace property bound to the artifact store.
func (a *Algorithm) DeclareWorkspace(name string, dir property.Direction, opts ...property.WorkspaceOption) (*property.Workspace, error) {
	w := property.NewWorkspace(name, dir, a.env.store, opts...)
	if err := a.props.Declare(w); err != nil {
		return nil, err
	}
	return w, nil
}

// SetPropertyValue parses value into the named property.
func (a *Algorithm) SetPropertyValue(name, value string) error {
	return a.props.SetPropertyValue(name, value)
}

// GetPropertyValue returns the string form of the named property.
func (a *Algorithm) GetPropertyValue(name string) (string, error) {
	return a.props.GetPropertyValue(name)
}

// SetWorkspace binds ws to the named workspace property.
func (a *Algorithm) SetWorkspace(name string, ws *artifact.Workspace) error {
	w, err := property.WorkspaceOf(a.props, name)
	if err != nil {
		return err
	}
	w.SetWorkspace(ws)
	return nil
}

// Workspace returns the workspace bound to the named property.
func (a *Algorithm) Workspace(name string) (*artifact.Workspace, error) {
	w, err := property.WorkspaceOf(a.props, name)
	if err != nil {
		return nil, err
	}
	return w.Workspace(), nil
}

// transition applies mutate and emits a state change event when the
// lifecycle state moved.
func (a *Algorithm) transition(reason string, mutate func()) {
	prev := a.State()
	mutate()
	cur := a.State()
	if prev == cur || a.env.emitter == nil {
		return
	}
	a.env.emitter.OnStateChange(StateChangeEvent{
		Algorithm: a.Name(),
		Version:   a.Version(),
		ID:        a.id,
		Child:     a.child,
		Previous:  prev,
		Current:   cur,
		Reason:    reason,
	})
}
