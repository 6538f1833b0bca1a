package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/bft-labs/mantle"
	"github.com/bft-labs/mantle/internal/app"
	"github.com/bft-labs/mantle/internal/cliconfig"
	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/log"
	"github.com/bft-labs/mantle/pkg/metrics"
	"github.com/bft-labs/mantle/pkg/registry"
)

// engine holds everything a command needs to run algorithms.
type engine struct {
	cfg      cliconfig.Config
	logger   log.Logger
	store    artifact.Store
	registry *registry.Registry
	runner   *app.Runner

	promReg  *prometheus.Registry
	provider *sdktrace.TracerProvider
	closers  []func(context.Context) error
}

func newEngine(ctx context.Context, cfg cliconfig.Config, zl zerolog.Logger) (*engine, error) {
	e := &engine{
		cfg:     cfg,
		logger:  log.NewZerologAdapterWithLogger(zl),
		promReg: prometheus.NewRegistry(),
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e.store = store
	if c, ok := store.(io.Closer); ok {
		e.closers = append(e.closers, func(context.Context) error { return c.Close() })
	}

	collector := metrics.NewCollector(e.promReg)
	algOpts := []algorithm.Option{
		algorithm.WithLogger(e.logger),
		algorithm.WithArtifactStore(store),
		algorithm.WithEventEmitter(collector),
		algorithm.WithExecutionObserver(collector),
	}

	if cfg.Trace {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			e.close(ctx)
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		e.provider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		e.closers = append(e.closers, e.provider.Shutdown)
		algOpts = append(algOpts, algorithm.WithTracer(e.provider.Tracer("mantle")))
	}

	reg, err := mantle.NewDefaultRegistry(
		registry.WithHiddenCategories(cfg.HiddenCategories...),
		registry.WithLogger(e.logger),
		registry.WithAlgorithmOptions(algOpts...),
	)
	if err != nil {
		e.close(ctx)
		return nil, err
	}
	e.registry = reg
	e.runner = app.NewRunner(reg, e.logger)
	return e, nil
}

func openStore(ctx context.Context, cfg cliconfig.Config) (artifact.Store, error) {
	switch cfg.ArtifactBackend {
	case cliconfig.BackendRedis:
		var opts []artifact.RedisOption
		if cfg.RedisTTL > 0 {
			opts = append(opts, artifact.WithTTL(cfg.RedisTTL))
		}
		s, err := artifact.Connect(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisConnectAttempts, opts...)
		if err != nil {
			return nil, fmt.Errorf("connect artifact store: %w", err)
		}
		return s, nil
	case cliconfig.BackendFile:
		return artifact.NewFileStore(cfg.StoreDir), nil
	default:
		return artifact.NewMemoryStore(), nil
	}
}

// close flushes traces, closes the store and prints the metrics summary
// when it was requested.
func (e *engine) close(ctx context.Context) {
	if e.cfg.MetricsSummary && e.promReg != nil {
		if err := printMetrics(os.Stdout, e.promReg); err != nil {
			e.logger.Warn("cannot summarize metrics", log.Err(err))
		}
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil {
			e.logger.Warn("shutdown failed", log.Err(err))
		}
	}
	e.closers = nil
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	samples, err := metrics.Summarize(g, "mantle_")
	if err != nil {
		return err
	}
	for _, s := range samples {
		if s.Sum != 0 {
			fmt.Fprintf(w, "%s{%s} count=%g sum=%gs\n", s.Name, s.LabelString(), s.Value, s.Sum)
			continue
		}
		fmt.Fprintf(w, "%s{%s} %g\n", s.Name, s.LabelString(), s.Value)
	}
	return nil
}
