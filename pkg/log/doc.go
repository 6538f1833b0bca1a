// Package log provides a logging abstraction for mantle components.
//
// This package defines a Logger interface that can be implemented by
// any logging library. Default implementations are provided for zerolog
// and a no-op logger for testing.
//
// # Levels
//
// Six severities are available: Debug, Info, Notice, Warn, Error and Fatal.
// Fatal is a severity, not a control-flow instruction: adapters must never
// terminate the process when it is used. The algorithm lifecycle logs at
// Fatal right before it returns an unclassified failure to the caller.
//
// # Usage
//
// Use the provided zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or use the no-op logger for testing:
//
//	logger := log.NewNoopLogger()
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package log
