package artifact

import (
	"maps"
	"slices"
	"time"
)

// Workspace is a computed dataset: a single spectrum of Y values over X.
type Workspace struct {
	// Name is the key under which the workspace is stored.
	// Empty until the workspace has been stored.
	Name string `json:"name"`

	// Title is a free-form description.
	Title string `json:"title,omitempty"`

	// X holds the bin boundaries or point positions.
	X []float64 `json:"x"`

	// Y holds the values, one per X point.
	Y []float64 `json:"y"`

	// Meta carries provenance such as the producing algorithm.
	Meta map[string]string `json:"meta,omitempty"`

	// CreatedAt is when the workspace was produced.
	CreatedAt time.Time `json:"created_at"`
}

// NewWorkspace creates a workspace with copies of x and y.
func NewWorkspace(title string, x, y []float64) *Workspace {
	return &Workspace{
		Title:     title,
		X:         slices.Clone(x),
		Y:         slices.Clone(y),
		Meta:      map[string]string{},
		CreatedAt: time.Now().UTC(),
	}
}

// Len returns the number of Y values.
func (w *Workspace) Len() int {
	return len(w.Y)
}

// Clone returns a deep copy of the workspace.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	cp := *w
	cp.X = slices.Clone(w.X)
	cp.Y = slices.Clone(w.Y)
	cp.Meta = maps.Clone(w.Meta)
	if cp.Meta == nil {
		cp.Meta = map[string]string{}
	}
	return &cp
}

// SetMeta records a provenance entry.
func (w *Workspace) SetMeta(key, value string) {
	if w.Meta == nil {
		w.Meta = map[string]string{}
	}
	w.Meta[key] = value
}
