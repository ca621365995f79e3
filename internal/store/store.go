// Package store defines the durable key-value port backing the cache and
// provides its filesystem and in-memory implementations.
//
// The port intentionally stays small: set, get, get-all, remove. The cache
// layer treats any store failure as a soft miss, so implementations are
// free to fail without breaking callers.
package store

import (
	"encoding/json"
	"path/filepath"

	"github.com/dquaid/leetfriends/internal/core"
)

// Store is the durable key-value port. Values are opaque JSON documents.
type Store interface {
	// Set writes a value under key, overwriting any existing value.
	Set(key string, value json.RawMessage) error

	// Get returns the value for key, or ok=false if absent.
	Get(key string) (value json.RawMessage, ok bool, err error)

	// GetAll returns every stored key-value pair.
	GetAll() (map[string]json.RawMessage, error)

	// Remove deletes the given keys. Missing keys are not an error.
	Remove(keys []string) error
}

// DefaultPath returns the filesystem location of the store document.
func DefaultPath() string {
	return filepath.Join(core.DataRoot(), "store.json")
}
