package artifact

import (
	"context"
	"errors"
	"strings"
)

// Store errors. Check them with errors.Is.
var (
	// ErrNotFound is returned when no workspace is stored under a name.
	ErrNotFound = errors.New("artifact: workspace not found")

	// ErrExists is returned by Add when the name is already taken.
	ErrExists = errors.New("artifact: workspace already exists")

	// ErrInvalidName is returned for empty or whitespace-only names.
	ErrInvalidName = errors.New("artifact: invalid workspace name")

	// ErrNilWorkspace is returned when a nil workspace is stored.
	ErrNilWorkspace = errors.New("artifact: nil workspace")
)

// Store is a named registry of workspaces.
// Implementations must be safe for concurrent use.
type Store interface {
	// Add stores ws under name. Returns ErrExists if the name is taken.
	Add(ctx context.Context, name string, ws *Workspace) error

	// AddOrReplace stores ws under name, replacing any previous entry.
	AddOrReplace(ctx context.Context, name string, ws *Workspace) error

	// Retrieve returns the workspace stored under name or ErrNotFound.
	Retrieve(ctx context.Context, name string) (*Workspace, error)

	// Remove deletes the workspace stored under name.
	// Removing a missing name is not an error.
	Remove(ctx context.Context, name string) error

	// Exists reports whether a workspace is stored under name.
	Exists(ctx context.Context, name string) (bool, error)

	// Names returns the sorted names of all stored workspaces.
	Names(ctx context.Context) ([]string, error)

	// Clear removes every workspace.
	Clear(ctx context.Context) error
}

// validate checks a name and workspace before insertion.
func validate(name string, ws *Workspace) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if ws == nil {
		return ErrNilWorkspace
	}
	return nil
}
