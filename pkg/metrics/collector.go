package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bft-labs/mantle/pkg/algorithm"
)

// Collector records algorithm metrics in a Prometheus registry.
type Collector struct {
	executions  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	failures    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	live        prometheus.Gauge
}

// NewCollector registers the algorithm metrics with reg.
// It panics if the metrics are already registered with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		executions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mantle_algorithm_executions_total",
				Help: "Total number of algorithm executions by outcome",
			},
			[]string{"algorithm", "outcome", "child"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mantle_algorithm_execution_duration_seconds",
				Help:    "Algorithm execution duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"algorithm"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mantle_algorithm_failures_total",
				Help: "Total number of algorithm execution failures by reason",
			},
			[]string{"algorithm", "reason"},
		),
		transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mantle_algorithm_transitions_total",
				Help: "Total number of lifecycle transitions by target state",
			},
			[]string{"algorithm", "state"},
		),
		live: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "mantle_algorithm_live",
				Help: "Number of initialized algorithms not yet finalized",
			},
		),
	}
}

// OnStateChange implements algorithm.EventEmitter.
func (c *Collector) OnStateChange(e algorithm.StateChangeEvent) {
	c.transitions.WithLabelValues(e.Algorithm, e.Current.String()).Inc()
	switch {
	case e.Previous == algorithm.StateUninitialized && e.Current != algorithm.StateUninitialized:
		c.live.Inc()
	case e.Current == algorithm.StateFinalized:
		c.live.Dec()
	}
}

// OnExecute implements algorithm.ExecutionObserver.
func (c *Collector) OnExecute(e algorithm.ExecutionEvent) {
	c.executions.WithLabelValues(e.Algorithm, e.Outcome.String(), strconv.FormatBool(e.Child)).Inc()
	if e.Outcome != algorithm.OutcomeRejected {
		c.duration.WithLabelValues(e.Algorithm).Observe(e.Duration.Seconds())
	}
	if reason := FailureReason(e); reason != "" {
		c.failures.WithLabelValues(e.Algorithm, reason).Inc()
	}
}

// FailureReason classifies the failure carried by e, or returns "" when
// the execution did not fail.
func FailureReason(e algorithm.ExecutionEvent) string {
	if e.Outcome == algorithm.OutcomeRecovered {
		return "recovered"
	}
	if e.Err == nil {
		return ""
	}
	var (
		uf   *algorithm.UnknownFailure
		cerr *algorithm.ComputationError
		verr *algorithm.PropertyValidationError
		perr *algorithm.PersistenceError
		serr *algorithm.StateError
	)
	switch {
	case errors.As(e.Err, &uf):
		return "unknown"
	case errors.As(e.Err, &cerr):
		return cerr.Kind.String()
	case errors.As(e.Err, &verr):
		return "validation"
	case errors.As(e.Err, &perr):
		return "persistence"
	case errors.As(e.Err, &serr):
		return "state"
	default:
		return "other"
	}
}

var (
	_ algorithm.EventEmitter      = (*Collector)(nil)
	_ algorithm.ExecutionObserver = (*Collector)(nil)
)
