package store

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrStoreUnavailable simulates a torn-down backing store.
var ErrStoreUnavailable = errors.New("store unavailable")

// MemoryStore is an in-memory store for testing.
type MemoryStore struct {
	entries map[string]json.RawMessage
	mu      sync.RWMutex

	// Fail makes every operation return ErrStoreUnavailable, for
	// exercising the cache layer's soft-failure path.
	Fail bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]json.RawMessage),
	}
}

// Set writes a value under key.
func (s *MemoryStore) Set(key string, value json.RawMessage) error {
	if s.Fail {
		return ErrStoreUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent mutation
	valueCopy := make(json.RawMessage, len(value))
	copy(valueCopy, value)
	s.entries[key] = valueCopy
	return nil
}

// Get returns the value for key, or ok=false if absent.
func (s *MemoryStore) Get(key string) (json.RawMessage, bool, error) {
	if s.Fail {
		return nil, false, ErrStoreUnavailable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	valueCopy := make(json.RawMessage, len(value))
	copy(valueCopy, value)
	return valueCopy, true, nil
}

// GetAll returns every stored key-value pair.
func (s *MemoryStore) GetAll() (map[string]json.RawMessage, error) {
	if s.Fail {
		return nil, ErrStoreUnavailable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(s.entries))
	for k, v := range s.entries {
		valueCopy := make(json.RawMessage, len(v))
		copy(valueCopy, v)
		result[k] = valueCopy
	}
	return result, nil
}

// Remove deletes the given keys.
func (s *MemoryStore) Remove(keys []string) error {
	if s.Fail {
		return ErrStoreUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// Len returns the number of stored entries (for testing).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset clears all entries (for testing).
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]json.RawMessage)
}
