// Package property holds the named, typed and validated configuration values
// attached to an algorithm instance.
//
// A [Manager] keeps properties in declaration order and looks them up
// case-insensitively. Values are set from strings, so every property type
// knows how to parse and print itself. Validators run when a value is set
// and again when the whole manager is validated before execution.
//
// Workspace properties bind a property to an [artifact.Store]: input
// workspaces are resolved from the store by name, output workspaces are
// [Storable] and are published to the store after a successful run.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package property
