package algorithm

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bft-labs/mantle/pkg/log"
)

// SpanName is the name of the span started by Execute.
const SpanName = "algorithm.execute"

// Initialize runs the SetUp hook and initializes every child already owned.
// It is a no-op once it has succeeded. A failed SetUp is not rolled back.
func (a *Algorithm) Initialize() error {
	if a.initialized {
		return nil
	}

	if err := a.call(PhaseInitialize, func() error { return a.hooks.SetUp(a) }); err != nil {
		return a.initFailure(err, "error initializing algorithm")
	}

	for _, c := range a.children {
		if err := c.Initialize(); err != nil {
			return a.initFailure(err, "error initializing one or several child algorithms")
		}
	}

	a.transition("initialized", func() { a.initialized = true })
	a.Logger().Debug("algorithm initialized", log.Int("properties", a.props.Len()))
	return nil
}

func (a *Algorithm) initFailure(err error, msg string) error {
	var uf *UnknownFailure
	if errors.As(err, &uf) {
		a.Logger().Fatal("unknown failure during initialization", log.Err(err))
		return err
	}
	a.Logger().Error(msg, log.Err(err))
	return fmt.Errorf("initialize %s: %w", a.Name(), err)
}

// Execute validates the properties and runs the Run hook.
//
// Recognized computation errors are returned only when the algorithm
// propagates on failure; otherwise they are logged and execution continues
// as if the hook had completed. Top-level algorithms then publish their
// output workspace.
func (a *Algorithm) Execute(ctx context.Context) (err error) {
	if !a.initialized {
		err = &StateError{Algorithm: a.Name(), Op: "execute", Err: ErrNotInitialized}
		a.Logger().Error("algorithm is not initialized", log.Err(err))
		a.observe(OutcomeRejected, 0, err)
		return err
	}

	ctx, span := a.env.tracer.Start(ctx, SpanName, trace.WithAttributes(
		attribute.String("mantle.algorithm", a.Name()),
		attribute.Int("mantle.version", a.Version()),
		attribute.Bool("mantle.child", a.child),
		attribute.String("mantle.id", a.id),
	))
	start := time.Now()
	outcome := OutcomeSucceeded
	defer func() {
		span.SetAttributes(attribute.String("mantle.outcome", outcome.String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		a.observe(outcome, time.Since(start), err)
	}()

	if err = a.validate(ctx); err != nil {
		outcome = OutcomeRejected
		return err
	}

	a.Logger().Debug("executing algorithm")
	if runErr := a.call(PhaseExecute, func() error { return a.hooks.Run(ctx, a) }); runErr != nil {
		var uf *UnknownFailure
		if errors.As(runErr, &uf) {
			a.transition("unknown failure", func() { a.executed = false })
			a.Logger().Fatal("unknown failure during execution", log.Err(runErr))
			outcome = OutcomeUnknown
			return runErr
		}

		cerr := newComputationError(a.Name(), runErr, a.PropagatesOnFailure())
		a.Logger().Error("error in execution of algorithm",
			log.String("kind", cerr.Kind.String()),
			log.Bool("propagated", cerr.Propagated),
			log.Err(runErr),
		)
		if cerr.Propagated {
			a.transition("execution failed", func() { a.executed = false })
			outcome = OutcomeFailed
			return cerr
		}
		outcome = OutcomeRecovered
	}

	if !a.child {
		if err = a.storeOutputs(ctx); err != nil {
			a.transition("store failed", func() { a.executed = false })
			outcome = OutcomeFailed
			return err
		}
	}

	a.transition("executed", func() { a.executed = true })
	a.Logger().Debug("algorithm executed", log.Duration("elapsed", time.Since(start)))
	return nil
}

// validate resolves and checks every property.
func (a *Algorithm) validate(ctx context.Context) error {
	if err := a.props.Resolve(ctx); err != nil {
		verr := &PropertyValidationError{Algorithm: a.Name(), Err: err}
		a.Logger().Error("failed to resolve properties", log.Err(err))
		return verr
	}

	ok, problems := a.props.ValidateProperties()
	if ok {
		return nil
	}
	for _, p := range problems {
		a.Logger().Error("invalid property", log.String("property", p.Property), log.String("problem", p.Message))
	}
	return &PropertyValidationError{Algorithm: a.Name(), Problems: problems}
}

// Finalize finalizes every child, runs the TearDown hook and releases the
// children. Children are released on every path.
func (a *Algorithm) Finalize() error {
	if !a.initialized {
		err := &StateError{Algorithm: a.Name(), Op: "finalize", Err: ErrNotInitialized}
		a.Logger().Error("algorithm is not initialized", log.Err(err))
		return err
	}
	if a.finalized {
		err := &StateError{Algorithm: a.Name(), Op: "finalize", Err: ErrAlreadyFinalized}
		a.Logger().Error("algorithm is already finalized", log.Err(err))
		return err
	}
	defer a.releaseChildren()

	for _, c := range a.children {
		if !c.initialized || c.finalized {
			a.Logger().Warn("skipping child algorithm",
				log.String("child", c.Name()),
				log.String("state", c.State().String()),
			)
			continue
		}
		if err := c.Finalize(); err != nil {
			return a.finalFailure(err, "error finalizing one or several child algorithms")
		}
	}

	if err := a.call(PhaseFinalize, func() error { return a.hooks.TearDown(a) }); err != nil {
		return a.finalFailure(err, "error finalizing algorithm")
	}

	a.releaseChildren()
	a.transition("finalized", func() { a.finalized = true })
	a.Logger().Debug("algorithm finalized")
	return nil
}

func (a *Algorithm) finalFailure(err error, msg string) error {
	var uf *UnknownFailure
	if errors.As(err, &uf) {
		a.Logger().Fatal("unknown failure during finalization", log.Err(err))
		return err
	}
	a.Logger().Error(msg, log.Err(err))
	return fmt.Errorf("finalize %s: %w", a.Name(), err)
}

// call runs fn and converts a panic into an UnknownFailure. An
// UnknownFailure returned by fn is stamped with this algorithm and phase
// when it carries neither.
func (a *Algorithm) call(phase string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UnknownFailure{
				Algorithm: a.Name(),
				Phase:     phase,
				Value:     r,
				Stack:     debug.Stack(),
			}
		}
	}()

	err = fn()
	var uf *UnknownFailure
	if errors.As(err, &uf) && uf.Algorithm == "" {
		uf.Algorithm = a.Name()
		uf.Phase = phase
	}
	return err
}

func (a *Algorithm) observe(outcome Outcome, d time.Duration, err error) {
	if a.env.observer == nil {
		return
	}
	a.env.observer.OnExecute(ExecutionEvent{
		Algorithm: a.Name(),
		Version:   a.Version(),
		ID:        a.id,
		Child:     a.child,
		Outcome:   outcome,
		Duration:  d,
		Err:       err,
	})
}
