// Package cache implements the in-process TTL cache that sits between the
// HTTP handlers and the document store, together with the single-flight fetch
// path that collapses concurrent reads of the same key into one upstream call.
package cache

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// entry is a single cached value. An entry whose age exceeds its TTL is
// logically absent; Get deletes it on lookup (lazy eviction).
type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a namespace-keyed TTL cache. It is safe for concurrent use.
//
// Construct one per process (or per test) and inject it; there is no package
// singleton, so tests can run isolated instances side by side.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry

	hits          int64
	misses        int64
	sets          int64
	invalidations int64
	locks         int64

	group  singleflight.Group
	logger *zap.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// Stats is a point-in-time snapshot of cache counters. Locks counts calls
// that joined an in-flight fetch instead of issuing their own.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Sets          int64 `json:"sets"`
	Invalidations int64 `json:"invalidations"`
	Size          int   `json:"size"`
	Locks         int64 `json:"locks"`
}

// New creates an empty cache.
func New(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries: make(map[string]entry),
		logger:  logger,
		now:     time.Now,
	}
}

// Key builds the cache key for a namespace/owner pair. extra is optional and
// distinguishes sub-values within a namespace (an entity id, a filter hash).
func Key(ns Namespace, ownerID, extra string) string {
	if extra == "" {
		return string(ns) + ":" + ownerID
	}
	return string(ns) + ":" + ownerID + ":" + extra
}

// Get returns the value stored under (ns, ownerID, extra) if present and
// unexpired. Expired entries are removed during the lookup and reported as
// misses.
func (c *Cache) Get(ns Namespace, ownerID, extra string) (any, bool) {
	key := Key(ns, ownerID, extra)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		observeLookup(ns, false)
		return nil, false
	}
	if c.now().Sub(e.storedAt) > e.ttl {
		delete(c.entries, key)
		c.misses++
		observeLookup(ns, false)
		return nil, false
	}

	c.hits++
	observeLookup(ns, true)
	return e.value, true
}

// Set stores value under (ns, ownerID, extra) with the namespace's TTL,
// unconditionally overwriting any existing entry.
func (c *Cache) Set(ns Namespace, ownerID string, value any, extra string) {
	c.SetWithTTL(ns, ownerID, value, extra, ns.TTL())
}

// SetWithTTL is Set with an explicit TTL override.
func (c *Cache) SetWithTTL(ns Namespace, ownerID string, value any, extra string, ttl time.Duration) {
	key := Key(ns, ownerID, extra)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
	c.sets++
	observeSet(ns)
}

// SetBatch stores many keyed sub-values under one namespace/owner pair in a
// single critical section. Used to cache each record individually right after
// a full list was fetched.
func (c *Cache) SetBatch(ns Namespace, ownerID string, values map[string]any) {
	c.SetBatchWithTTL(ns, ownerID, values, ns.TTL())
}

// SetBatchWithTTL is SetBatch with an explicit TTL override.
func (c *Cache) SetBatchWithTTL(ns Namespace, ownerID string, values map[string]any, ttl time.Duration) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for extra, value := range values {
		c.entries[Key(ns, ownerID, extra)] = entry{value: value, storedAt: now, ttl: ttl}
		c.sets++
		observeSet(ns)
	}
}

// Invalidate removes cached data for one owner. With extra set it deletes
// exactly that key; otherwise it sweeps every key under the namespace/owner
// prefix. The sweep is a linear scan over all entries, which is acceptable at
// in-process scale.
func (c *Cache) Invalidate(ns Namespace, ownerID, extra string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if extra != "" {
		key := Key(ns, ownerID, extra)
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			c.invalidations++
			observeInvalidation(ns)
		}
		return
	}

	prefix := Key(ns, ownerID, "")
	for key := range c.entries {
		if key == prefix || strings.HasPrefix(key, prefix+":") {
			delete(c.entries, key)
			c.invalidations++
			observeInvalidation(ns)
		}
	}
}

// Clear drops all entries and resets the counters. Operational/test use only.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	c.hits = 0
	c.misses = 0
	c.sets = 0
	c.invalidations = 0
	c.locks = 0
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:          c.hits,
		Misses:        c.misses,
		Sets:          c.sets,
		Invalidations: c.invalidations,
		Size:          len(c.entries),
		Locks:         c.locks,
	}
}

func (c *Cache) noteSharedFetch() {
	c.mu.Lock()
	c.locks++
	c.mu.Unlock()
}
