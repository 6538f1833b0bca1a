// Package metrics exports algorithm lifecycle and execution metrics to
// Prometheus.
//
// A [Collector] implements both [algorithm.EventEmitter] and
// [algorithm.ExecutionObserver]; pass it to algorithms (usually through the
// registry's default algorithm options) to record:
//
//	mantle_algorithm_executions_total{algorithm,outcome,child}
//	mantle_algorithm_execution_duration_seconds{algorithm}
//	mantle_algorithm_failures_total{algorithm,reason}
//	mantle_algorithm_transitions_total{algorithm,state}
//	mantle_algorithm_live
//
// [Summarize] flattens a gatherer into plain samples for reporting.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package metrics
