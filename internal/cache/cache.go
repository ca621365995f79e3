// Package cache provides the TTL-based caching layer for LeetCode data.
//
// # Overview
//
// Every cached dataset (submissions, user stats, profile pictures,
// strikes, contest standings) is stored as an opaque JSON blob in the
// durable key-value store, wrapped in an envelope carrying its write
// time and expiry time. Entries are namespaced under the "cache_"
// prefix so Clear and SweepExpired never touch unrelated stored data.
//
// # Expiry semantics
//
// An entry is logically absent once now > expiresAt, even while it is
// still physically stored. Get lazily evicts expired entries as a side
// effect; concurrent reads of the same expired key may race to evict,
// which is idempotent and harmless. Metadata performs the same expiry
// check but never evicts and never materializes the value, making it
// cheap enough for 1-second polling.
//
// # Failure semantics
//
// A failing backing store degrades every operation to a cache miss or
// no-op rather than an error, so callers always fall through to a live
// fetch. The cache itself never retries anything.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dquaid/leetfriends/internal/core"
	"github.com/dquaid/leetfriends/internal/store"
)

// Namespace prefixes every key this cache writes to the backing store.
const Namespace = "cache_"

// ErrInvalidTTL is returned by Set for non-positive TTLs.
var ErrInvalidTTL = errors.New("ttl must be positive")

// entry is the stored envelope around a cached value.
// Invariant: ExpiresAt > CachedAt. Both are epoch milliseconds.
type entry struct {
	Value     json.RawMessage `json:"value"`
	CachedAt  int64           `json:"cachedAt"`
	ExpiresAt int64           `json:"expiresAt"`
}

// Metadata describes a live cache entry without its value.
type Metadata struct {
	CachedAt        time.Time
	ExpiresAt       time.Time
	TimeUntilExpiry time.Duration
}

// Cache is a TTL-expiring key-value cache over a storage port.
type Cache struct {
	store   store.Store
	now     func() time.Time
	verbose bool
}

// New creates a cache over the given store.
func New(st store.Store, verbose bool) *Cache {
	return NewWithClock(st, time.Now, verbose)
}

// NewWithClock creates a cache with an explicit clock (for testing).
func NewWithClock(st store.Store, now func() time.Time, verbose bool) *Cache {
	return &Cache{store: st, now: now, verbose: verbose}
}

// log writes a debug message if verbose mode is enabled.
func (c *Cache) log(msg string) {
	core.Eprint(fmt.Sprintf("[Cache] %s", msg), c.verbose)
}

// Set stores value under key with the given TTL, overwriting any
// existing entry. The write is last-write-wins and idempotent under
// retry. A non-positive TTL is a caller error.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: got %v for key %q", ErrInvalidTTL, ttl, key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %q: %w", key, err)
	}

	now := c.now()
	data, err := json.Marshal(entry{
		Value:     raw,
		CachedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	})
	if err != nil {
		return err
	}

	if err := c.store.Set(Namespace+key, data); err != nil {
		// Store unavailability is a soft failure; the next read is a miss.
		c.log(fmt.Sprintf("store write failed for %q: %v", key, err))
	}
	return nil
}

// Get loads the value for key into dest. Returns false if the entry is
// missing or expired; expired entries are evicted as a side effect.
// dest may be nil to check presence without decoding.
func (c *Cache) Get(key string, dest any) (bool, error) {
	e, ok := c.read(key)
	if !ok {
		return false, nil
	}

	if c.now().UnixMilli() > e.ExpiresAt {
		c.evict(key)
		return false, nil
	}

	if dest != nil {
		if err := json.Unmarshal(e.Value, dest); err != nil {
			return false, fmt.Errorf("unmarshal cache value for %q: %w", key, err)
		}
	}
	return true, nil
}

// Has reports whether key holds a live entry. Shares Get's eviction
// side effect.
func (c *Cache) Has(key string) bool {
	ok, err := c.Get(key, nil)
	return err == nil && ok
}

// Metadata returns timing info for a live entry without evicting or
// decoding the value. Returns ok=false for missing or expired entries.
func (c *Cache) Metadata(key string) (*Metadata, bool) {
	e, ok := c.read(key)
	if !ok {
		return nil, false
	}

	now := c.now()
	if now.UnixMilli() > e.ExpiresAt {
		return nil, false
	}

	expiresAt := time.UnixMilli(e.ExpiresAt)
	return &Metadata{
		CachedAt:        time.UnixMilli(e.CachedAt),
		ExpiresAt:       expiresAt,
		TimeUntilExpiry: expiresAt.Sub(now),
	}, true
}

// Delete removes the entry for key unconditionally.
func (c *Cache) Delete(key string) {
	c.evict(key)
}

// Clear removes all entries in this cache's namespace, leaving
// unrelated stored data untouched.
func (c *Cache) Clear() error {
	all, err := c.store.GetAll()
	if err != nil {
		c.log(fmt.Sprintf("store scan failed: %v", err))
		return nil
	}

	keys := make([]string, 0)
	for k := range all {
		if strings.HasPrefix(k, Namespace) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.store.Remove(keys); err != nil {
		c.log(fmt.Sprintf("store remove failed: %v", err))
	}
	return nil
}

// SweepExpired deletes every namespaced entry past its expiry and
// returns the number removed. Intended to run once per session start.
func (c *Cache) SweepExpired() int {
	all, err := c.store.GetAll()
	if err != nil {
		c.log(fmt.Sprintf("store scan failed: %v", err))
		return 0
	}

	nowMs := c.now().UnixMilli()
	expired := make([]string, 0)
	for k, raw := range all {
		if !strings.HasPrefix(k, Namespace) {
			continue
		}
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			// Unreadable envelopes count as expired.
			expired = append(expired, k)
			continue
		}
		if nowMs > e.ExpiresAt {
			expired = append(expired, k)
		}
	}

	if len(expired) == 0 {
		return 0
	}
	if err := c.store.Remove(expired); err != nil {
		c.log(fmt.Sprintf("store remove failed: %v", err))
		return 0
	}
	c.log(fmt.Sprintf("swept %d expired entries", len(expired)))
	return len(expired)
}

// read loads and decodes the envelope for key. Corrupt envelopes are
// evicted and read as absent.
func (c *Cache) read(key string) (*entry, bool) {
	raw, ok, err := c.store.Get(Namespace + key)
	if err != nil {
		c.log(fmt.Sprintf("store read failed for %q: %v", key, err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.log(fmt.Sprintf("corrupt cache entry %q, evicting", key))
		c.evict(key)
		return nil, false
	}
	return &e, true
}

// evict removes a namespaced key, ignoring store failures.
func (c *Cache) evict(key string) {
	if err := c.store.Remove([]string{Namespace + key}); err != nil {
		c.log(fmt.Sprintf("store remove failed for %q: %v", key, err))
	}
}
