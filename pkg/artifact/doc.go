// Package artifact provides the process-wide named store of computed outputs.
//
// Algorithms publish their output workspaces here after a successful
// top-level execution, and read input workspaces from it by name. Every
// Store implementation is safe for concurrent named insertion; the
// algorithm lifecycle adds no locking of its own around it.
//
// # Implementations
//
//   - [MemoryStore]: in-process, backed by go-cache with no expiration
//   - [RedisStore]: shared between processes, JSON values in Redis
//   - [FileStore]: one JSON document per workspace, written atomically
//
// # Usage
//
//	store := artifact.NewMemoryStore()
//	if err := store.AddOrReplace(ctx, "run_1234", ws); err != nil {
//	    return err
//	}
//	ws, err := store.Retrieve(ctx, "run_1234")
//	if errors.Is(err, artifact.ErrNotFound) {
//	    ...
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package artifact
