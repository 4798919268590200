package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a file-backed key-value store for the locally persisted
// collections (trainings, instructors, option lists, ...). One JSON file per
// key; values are read once at startup and rewritten at every save point.
type Store struct {
	mu  sync.Mutex
	dir string
}

func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("localstore: dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Get reads the value stored under key into dst. Returns false when the key
// has never been written.
func (s *Store) Get(key string, dst interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("localstore: read %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return true, nil
}

// Put writes v under key. The write is atomic (temp file + rename) so a
// crash mid-write never leaves a truncated file behind.
func (s *Store) Put(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("localstore: rename %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
