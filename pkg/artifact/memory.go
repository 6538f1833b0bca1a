package artifact

import (
	"context"
	"errors"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements Store in process memory.
// Entries never expire unless WithExpiration is used.
type MemoryStore struct {
	cache      *gocache.Cache
	expiration time.Duration
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithExpiration makes stored workspaces expire after ttl.
// A janitor goroutine sweeps expired entries every ttl.
func WithExpiration(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.expiration = ttl
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{expiration: gocache.NoExpiration}
	for _, opt := range opts {
		opt(s)
	}
	cleanup := time.Duration(0)
	if s.expiration > 0 {
		cleanup = s.expiration
	}
	s.cache = gocache.New(s.expiration, cleanup)
	return s
}

// Add stores ws under name, failing with ErrExists if the name is taken.
func (s *MemoryStore) Add(ctx context.Context, name string, ws *Workspace) error {
	if err := validate(name, ws); err != nil {
		return err
	}
	ws.Name = name
	if err := s.cache.Add(name, ws, gocache.DefaultExpiration); err != nil {
		return ErrExists
	}
	return nil
}

// AddOrReplace stores ws under name.
func (s *MemoryStore) AddOrReplace(ctx context.Context, name string, ws *Workspace) error {
	if err := validate(name, ws); err != nil {
		return err
	}
	ws.Name = name
	s.cache.Set(name, ws, gocache.DefaultExpiration)
	return nil
}

// Retrieve returns the workspace stored under name.
func (s *MemoryStore) Retrieve(ctx context.Context, name string) (*Workspace, error) {
	v, ok := s.cache.Get(name)
	if !ok {
		return nil, ErrNotFound
	}
	ws, ok := v.(*Workspace)
	if !ok {
		return nil, errors.New("artifact: unexpected entry type")
	}
	return ws, nil
}

// Remove deletes the workspace stored under name.
func (s *MemoryStore) Remove(ctx context.Context, name string) error {
	s.cache.Delete(name)
	return nil
}

// Exists reports whether name is stored.
func (s *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := s.cache.Get(name)
	return ok, nil
}

// Names returns the sorted names of all live entries.
func (s *MemoryStore) Names(ctx context.Context) ([]string, error) {
	items := s.cache.Items()
	names := make([]string, 0, len(items))
	for k := range items {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes every workspace.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.cache.Flush()
	return nil
}

var _ Store = (*MemoryStore)(nil)
