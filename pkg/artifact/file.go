package artifact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileSuffix = ".ws.json"

// FileStore implements Store with one JSON file per workspace.
// Writes are atomic: the document is written to a temp file and renamed.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
// The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the workspace files.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileSuffix)
}

// Add stores ws under name, failing with ErrExists if the name is taken.
func (s *FileStore) Add(ctx context.Context, name string, ws *Workspace) error {
	if err := validateFileName(name, ws); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path(name)); err == nil {
		return ErrExists
	}
	return s.write(name, ws)
}

// AddOrReplace stores ws under name.
func (s *FileStore) AddOrReplace(ctx context.Context, name string, ws *Workspace) error {
	if err := validateFileName(name, ws); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(name, ws)
}

func (s *FileStore) write(name string, ws *Workspace) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	ws.Name = name
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return err
	}

	path := s.path(name)
	tmp := path + ".tmp"

	// Write to temp file
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmp, path)
}

// Retrieve reads the workspace stored under name.
func (s *FileStore) Retrieve(ctx context.Context, name string) (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Remove deletes the file for name.
func (s *FileStore) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a file for name exists.
func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Names lists the stored workspace names.
func (s *FileStore) Names(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes every workspace file.
func (s *FileStore) Clear(ctx context.Context) error {
	names, err := s.Names(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := s.Remove(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// validateFileName also rejects names that would escape the directory.
func validateFileName(name string, ws *Workspace) error {
	if err := validate(name, ws); err != nil {
		return err
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ErrInvalidName
	}
	return nil
}

var _ Store = (*FileStore)(nil)
