package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/log"
)

// Registry errors.
var (
	ErrNotFound          = errors.New("registry: algorithm not registered")
	ErrAlreadyRegistered = errors.New("registry: algorithm already registered with this version")
	ErrEmptyName         = errors.New("registry: algorithm name is empty")
	ErrNilConstructor    = errors.New("registry: constructor returned nil")
	ErrInvalidKey        = errors.New("registry: invalid key")
)

// Constructor creates a fresh Hooks value.
type Constructor func() algorithm.Hooks

type entry struct {
	ctor       Constructor
	name       string
	version    int
	categories []string
}

// Registry is a versioned catalogue of algorithm constructors.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	highest map[string]int
	hidden  map[string]bool
	algOpts []algorithm.Option
	logger  log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithHiddenCategories hides the given categories from listings.
func WithHiddenCategories(categories ...string) Option {
	return func(r *Registry) {
		for _, c := range categories {
			if c = strings.TrimSpace(c); c != "" {
				r.hidden[c] = true
			}
		}
	}
}

// WithAlgorithmOptions sets the options applied to every created algorithm.
func WithAlgorithmOptions(opts ...algorithm.Option) Option {
	return func(r *Registry) { r.algOpts = append(r.algOpts, opts...) }
}

// WithLogger sets the registry logger.
func WithLogger(l log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		highest: make(map[string]int),
		hidden:  make(map[string]bool),
		logger:  log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type subscribeOptions struct {
	replace bool
}

// SubscribeOption configures Subscribe.
type SubscribeOption func(*subscribeOptions)

// WithReplace replaces an algorithm already registered with the same name
// and version.
func WithReplace() SubscribeOption {
	return func(o *subscribeOptions) { o.replace = true }
}

// Subscribe registers ctor under the name and version reported by the
// Hooks it returns.
func (r *Registry) Subscribe(ctor Constructor, opts ...SubscribeOption) error {
	var so subscribeOptions
	for _, opt := range opts {
		opt(&so)
	}
	if ctor == nil {
		return ErrNilConstructor
	}
	h := ctor()
	if h == nil {
		return ErrNilConstructor
	}
	name := h.Name()
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	version := h.Version()
	key := createKey(name, version)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists && !so.replace {
		r.logger.Error("cannot register algorithm twice with the same version",
			log.String("algorithm", name), log.Int("version", version))
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	r.entries[key] = &entry{
		ctor:       ctor,
		name:       name,
		version:    version,
		categories: splitCategories(h.Category()),
	}
	if v, ok := r.highest[name]; !ok || version > v {
		r.highest[name] = version
	}
	r.logger.Debug("algorithm registered", log.String("algorithm", name), log.Int("version", version))
	return nil
}

// Unsubscribe removes one version of name.
func (r *Registry) Unsubscribe(name string, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := createKey(name, version)
	if _, ok := r.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(r.entries, key)
	delete(r.highest, name)
	for _, e := range r.entries {
		if e.name != name {
			continue
		}
		if v, ok := r.highest[name]; !ok || e.version > v {
			r.highest[name] = e.version
		}
	}
	return nil
}

// HighestVersion returns the highest registered version of name.
func (r *Registry) HighestVersion(name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.highest[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v, nil
}

// Exists reports whether name is registered with version, or with any
// version when version is -1.
func (r *Registry) Exists(name string, version int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if version == -1 {
		_, ok := r.highest[name]
		return ok
	}
	_, ok := r.entries[createKey(name, version)]
	return ok
}

// Create returns a fresh, uninitialized algorithm. A version of -1 selects
// the highest. The algorithm uses the registry as its factory.
func (r *Registry) Create(name string, version int) (*algorithm.Algorithm, error) {
	r.mu.RLock()
	if version == -1 {
		v, ok := r.highest[name]
		if !ok {
			r.mu.RUnlock()
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = v
	}
	e, ok := r.entries[createKey(name, version)]
	opts := make([]algorithm.Option, 0, len(r.algOpts)+1)
	opts = append(opts, r.algOpts...)
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, createKey(name, version))
	}
	h := e.ctor()
	if h == nil {
		return nil, fmt.Errorf("create %s: %w", createKey(name, version), ErrNilConstructor)
	}
	opts = append(opts, algorithm.WithFactory(r))
	return algorithm.New(h, opts...), nil
}

// Keys returns the keys of the registered algorithms ordered by name,
// then by version.
func (r *Registry) Keys(includeHidden bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		if includeHidden || !r.isHidden(e) {
			visible = append(visible, e)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if a.name != b.name {
			return a.name < b.name
		}
		return a.version < b.version
	})

	keys := make([]string, len(visible))
	for i, e := range visible {
		keys[i] = createKey(e.name, e.version)
	}
	return keys
}

// Descriptors returns one descriptor per algorithm and category, sorted by
// category, name and version.
func (r *Registry) Descriptors(includeHidden bool) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Descriptor
	for _, e := range r.entries {
		for _, c := range e.categories {
			if !includeHidden && r.hidden[c] {
				continue
			}
			out = append(out, Descriptor{Name: e.name, Version: e.version, Category: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Version < b.Version
	})
	return out
}

// Categories returns the sorted categories in use.
func (r *Registry) Categories(includeHidden bool) []string {
	state := r.CategoriesWithState()
	out := make([]string, 0, len(state))
	for c, hidden := range state {
		if includeHidden || !hidden {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// CategoriesWithState maps every category in use to whether it is hidden.
func (r *Registry) CategoriesWithState() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := make(map[string]bool)
	for _, e := range r.entries {
		for _, c := range e.categories {
			state[c] = r.hidden[c]
		}
	}
	return state
}

// isHidden reports whether every category of e is hidden.
func (r *Registry) isHidden(e *entry) bool {
	if len(e.categories) == 0 {
		return false
	}
	for _, c := range e.categories {
		if !r.hidden[c] {
			return false
		}
	}
	return true
}

var _ algorithm.Factory = (*Registry)(nil)
