// Package storage provides the durable client-side key/value store backing
// the session and UI preferences, persisted as a single JSON document on
// disk. It is the Go stand-in for browser local storage: flat string keys,
// written through on every mutation, and disposable: a corrupt state file is
// discarded rather than surfaced.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements ports.Storage on top of one JSON file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// DefaultPath returns the per-user state file location,
// e.g. ~/.config/campus-portal/state.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "campus-portal", "state.json"), nil
}

// Open loads the state file at path. A missing file yields an empty store; a
// file that fails to parse is treated the same way and will be overwritten on
// the next write.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.values); err != nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

// flush writes the full document. Caller holds the lock. File mode 0600: the
// bearer token lives here in the clear, as the original client kept it in
// local storage.
func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
