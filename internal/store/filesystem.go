package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists all entries as a single JSON document on disk,
// mirroring a per-profile browser store. Writes are atomic via temp
// file + rename.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file path.
// An empty path uses DefaultPath.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path}
}

// Path returns the backing file path (for debugging).
func (s *FileStore) Path() string {
	return s.path
}

// load reads the document from disk. A missing file yields an empty map.
// A corrupt file is discarded and treated as empty; the next write
// replaces it.
func (s *FileStore) load() map[string]json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return make(map[string]json.RawMessage)
	}

	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &entries); err != nil {
		os.Remove(s.path)
		return make(map[string]json.RawMessage)
	}
	return entries
}

// save writes the document atomically.
func (s *FileStore) save(entries map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

// Set writes a value under key, overwriting any existing value.
func (s *FileStore) Set(key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	entries[key] = value
	return s.save(entries)
}

// Get returns the value for key, or ok=false if absent.
func (s *FileStore) Get(key string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	value, ok := entries[key]
	return value, ok, nil
}

// GetAll returns every stored key-value pair.
func (s *FileStore) GetAll() (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(), nil
}

// Remove deletes the given keys. Missing keys are not an error.
func (s *FileStore) Remove(keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	changed := false
	for _, key := range keys {
		if _, ok := entries[key]; ok {
			delete(entries, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(entries)
}
