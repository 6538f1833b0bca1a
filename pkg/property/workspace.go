package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/mantle/pkg/artifact"
)

// Workspace is a property naming a workspace in an artifact store.
//
// Input workspaces are looked up by name during Resolve; a parent may also
// hand a workspace to a child directly with SetWorkspace, bypassing the
// store. Output workspaces are published by Store.
type Workspace struct {
	name     string
	doc      string
	dir      Direction
	optional bool
	store    artifact.Store

	target     string
	ws         *artifact.Workspace
	resolveErr string
	isDefault  bool
}

// WorkspaceOption configures a Workspace property.
type WorkspaceOption func(*Workspace)

// Optional allows the workspace name to stay empty.
func Optional() WorkspaceOption {
	return func(w *Workspace) { w.optional = true }
}

// WorkspaceDoc sets the help text.
func WorkspaceDoc(doc string) WorkspaceOption {
	return func(w *Workspace) { w.doc = doc }
}

// NewWorkspace declares a workspace property bound to store.
func NewWorkspace(name string, dir Direction, store artifact.Store, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{name: name, dir: dir, store: store, isDefault: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name implements Property.
func (w *Workspace) Name() string { return w.name }

// Direction implements Property.
func (w *Workspace) Direction() Direction { return w.dir }

// Documentation implements Property.
func (w *Workspace) Documentation() string { return w.doc }

// IsDefault implements Property.
func (w *Workspace) IsDefault() bool { return w.isDefault }

// Value returns the workspace name.
func (w *Workspace) Value() string { return w.target }

// SetValue sets the workspace name. Input workspaces are re-resolved on the
// next Resolve.
func (w *Workspace) SetValue(value string) error {
	w.target = value
	w.isDefault = false
	w.resolveErr = ""
	if w.dir != Output && (w.ws == nil || w.ws.Name != value) {
		w.ws = nil
	}
	return nil
}

// SetWorkspace binds ws directly.
func (w *Workspace) SetWorkspace(ws *artifact.Workspace) {
	w.ws = ws
	w.resolveErr = ""
	w.isDefault = false
	if w.target == "" && ws != nil {
		w.target = ws.Name
	}
}

// Workspace returns the bound workspace, or nil.
func (w *Workspace) Workspace() *artifact.Workspace { return w.ws }

// Resolve loads input workspaces from the store by name.
// A missing workspace is recorded as a validity problem, not returned.
func (w *Workspace) Resolve(ctx context.Context) error {
	if w.dir == Output || w.ws != nil || w.target == "" {
		return nil
	}
	if w.store == nil {
		w.resolveErr = "no artifact store available"
		return nil
	}
	ws, err := w.store.Retrieve(ctx, w.target)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			w.resolveErr = fmt.Sprintf("workspace %q does not exist", w.target)
			return nil
		}
		return fmt.Errorf("resolve %s: %w", w.name, err)
	}
	w.ws = ws
	w.resolveErr = ""
	return nil
}

// IsValid implements Property.
func (w *Workspace) IsValid() string {
	if w.target == "" && w.ws == nil {
		if w.optional {
			return ""
		}
		return fmt.Sprintf("enter a name for the %s workspace", w.dir)
	}
	if w.dir == Output {
		return ""
	}
	if w.ws != nil {
		return ""
	}
	if w.resolveErr != "" {
		return w.resolveErr
	}
	return fmt.Sprintf("workspace %q has not been resolved", w.target)
}

// Store publishes an output workspace under its name.
// Input workspaces and unset outputs report false.
func (w *Workspace) Store(ctx context.Context) (bool, error) {
	if w.dir == Input || w.ws == nil || w.target == "" {
		return false, nil
	}
	if w.store == nil {
		return false, fmt.Errorf("store %s: no artifact store available", w.name)
	}
	if err := w.store.AddOrReplace(ctx, w.target, w.ws); err != nil {
		return false, fmt.Errorf("store %s as %q: %w", w.name, w.target, err)
	}
	return true, nil
}

var (
	_ Property = (*Workspace)(nil)
	_ Storable = (*Workspace)(nil)
	_ Resolver = (*Workspace)(nil)
)
