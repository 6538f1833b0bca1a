package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/log"
	"github.com/bft-labs/mantle/pkg/property"
	"github.com/bft-labs/mantle/pkg/registry"
)

// Result summarizes one job run.
type Result struct {
	Algorithm string
	Version   int
	ID        string

	Initialized bool
	Executed    bool
	Finalized   bool

	// Stored lists the output workspaces present in the artifact store
	// after execution.
	Stored []string

	Duration time.Duration
}

// Runner runs jobs against a registry.
type Runner struct {
	reg    *registry.Registry
	logger log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(reg *registry.Registry, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Runner{reg: reg, logger: logger}
}

// Run creates, initializes, configures, executes and finalizes the job's
// algorithm. Finalize runs whenever Initialize succeeded; an execution
// error takes precedence over a finalize error.
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	start := time.Now()
	res := Result{Algorithm: job.Algorithm, Version: job.Version}
	if err := job.Validate(); err != nil {
		return res, err
	}

	a, err := r.reg.Create(job.Algorithm, job.Version)
	if err != nil {
		return res, err
	}
	res.Version = a.Version()
	res.ID = a.ID()
	l := log.With(r.logger, log.String("algorithm", a.Name()), log.Int("version", a.Version()), log.String("id", a.ID()))

	if err := a.Initialize(); err != nil {
		res.Duration = time.Since(start)
		return res, err
	}
	res.Initialized = true

	runErr := r.execute(ctx, a, job)
	res.Executed = a.IsExecuted()
	if res.Executed {
		res.Stored = storedOutputs(ctx, a)
	}

	finErr := a.Finalize()
	res.Finalized = a.IsFinalized()
	res.Duration = time.Since(start)

	if runErr == nil {
		runErr = finErr
	}
	if runErr != nil {
		l.Error("job failed", log.Duration("elapsed", res.Duration), log.Err(runErr))
		return res, runErr
	}
	l.Info("job finished",
		log.Duration("elapsed", res.Duration),
		log.Strings("stored", res.Stored),
	)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, a *algorithm.Algorithm, job Job) error {
	values, err := job.PropertyValues()
	if err != nil {
		return err
	}
	for _, kv := range values {
		if err := a.SetPropertyValue(kv[0], kv[1]); err != nil {
			return fmt.Errorf("set %s: %w", kv[0], err)
		}
	}
	return a.Execute(ctx)
}

// storedOutputs returns the names of output workspaces found in the store.
func storedOutputs(ctx context.Context, a *algorithm.Algorithm) []string {
	var out []string
	for _, p := range a.Properties().Properties() {
		w, ok := p.(*property.Workspace)
		if !ok || w.Direction() == property.Input || w.Value() == "" {
			continue
		}
		if ok, err := a.ArtifactStore().Exists(ctx, w.Value()); err == nil && ok {
			out = append(out, w.Value())
		}
	}
	return out
}
