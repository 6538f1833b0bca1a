package property

import (
	"context"
	"fmt"
	"strings"
)

// Manager holds an ordered, case-insensitive set of properties.
// It is not safe for concurrent mutation.
type Manager struct {
	props []Property
	index map[string]int
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{index: make(map[string]int)}
}

func key(name string) string { return strings.ToLower(name) }

// Declare adds p. Names must be unique ignoring case.
func (m *Manager) Declare(p Property) error {
	if p == nil || strings.TrimSpace(p.Name()) == "" {
		return ErrEmptyName
	}
	k := key(p.Name())
	if _, ok := m.index[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.Name())
	}
	m.index[k] = len(m.props)
	m.props = append(m.props, p)
	return nil
}

// Has reports whether name is declared.
func (m *Manager) Has(name string) bool {
	_, ok := m.index[key(name)]
	return ok
}

// Property returns the property declared as name.
func (m *Manager) Property(name string) (Property, error) {
	i, ok := m.index[key(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return m.props[i], nil
}

// SetPropertyValue parses value into the named property.
func (m *Manager) SetPropertyValue(name, value string) error {
	p, err := m.Property(name)
	if err != nil {
		return err
	}
	return p.SetValue(value)
}

// GetPropertyValue returns the string form of the named property.
func (m *Manager) GetPropertyValue(name string) (string, error) {
	p, err := m.Property(name)
	if err != nil {
		return "", err
	}
	return p.Value(), nil
}

// Properties returns the properties in declaration order.
func (m *Manager) Properties() []Property {
	cp := make([]Property, len(m.props))
	copy(cp, m.props)
	return cp
}

// Len returns the number of declared properties.
func (m *Manager) Len() int { return len(m.props) }

// Resolve lets every Resolver property look up what it references.
func (m *Manager) Resolve(ctx context.Context) error {
	for _, p := range m.props {
		r, ok := p.(Resolver)
		if !ok {
			continue
		}
		if err := r.Resolve(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProperties reports whether every property is valid, listing the
// problem of each one that is not.
func (m *Manager) ValidateProperties() (bool, []Problem) {
	var problems []Problem
	for _, p := range m.props {
		if msg := p.IsValid(); msg != "" {
			problems = append(problems, Problem{Property: p.Name(), Message: msg})
		}
	}
	return len(problems) == 0, problems
}

// Get returns the typed value of the named property.
func Get[T any](m *Manager, name string) (T, error) {
	var zero T
	p, err := m.Property(name)
	if err != nil {
		return zero, err
	}
	t, ok := p.(*Typed[T])
	if !ok {
		return zero, &TypeError{Property: name, Value: p.Value(), Type: fmt.Sprintf("%T", zero)}
	}
	return t.Get(), nil
}

// Set assigns a typed value to the named property.
func Set[T any](m *Manager, name string, v T) error {
	p, err := m.Property(name)
	if err != nil {
		return err
	}
	t, ok := p.(*Typed[T])
	if !ok {
		return &TypeError{Property: name, Value: fmt.Sprint(v), Type: fmt.Sprintf("%T", v)}
	}
	return t.Set(v)
}

// WorkspaceOf returns the named workspace property.
func WorkspaceOf(m *Manager, name string) (*Workspace, error) {
	p, err := m.Property(name)
	if err != nil {
		return nil, err
	}
	w, ok := p.(*Workspace)
	if !ok {
		return nil, &TypeError{Property: name, Value: p.Value(), Type: "workspace"}
	}
	return w, nil
}
