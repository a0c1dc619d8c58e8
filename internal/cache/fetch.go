package cache

import (
	"context"
	"time"
)

// GetOrFetch returns the cached value for (ns, ownerID, extra), or runs fetch
// to produce it. Concurrent callers for the same key while a fetch is
// in-flight join that fetch instead of issuing duplicate upstream reads; all
// of them observe the same value or the same error. A failed fetch is never
// stored, so the next caller retries fresh.
func GetOrFetch[T any](ctx context.Context, c *Cache, ns Namespace, ownerID, extra string, fetch func(ctx context.Context) (T, error)) (T, error) {
	return GetOrFetchWithTTL(ctx, c, ns, ownerID, extra, ns.TTL(), fetch)
}

// GetOrFetchWithTTL is GetOrFetch with an explicit TTL override for the
// stored result.
func GetOrFetchWithTTL[T any](ctx context.Context, c *Cache, ns Namespace, ownerID, extra string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(ns, ownerID, extra); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		// A value of the wrong type under this key is treated as a miss and
		// overwritten below.
	}

	key := Key(ns, ownerID, extra)
	executed := false
	v, err, shared := c.group.Do(key, func() (any, error) {
		executed = true
		// Another waiter may have completed and populated the cache between
		// our miss and acquiring the flight.
		if v, ok := c.Get(ns, ownerID, extra); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.SetWithTTL(ns, ownerID, value, extra, ttl)
		return value, nil
	})
	// shared is reported to every caller of a shared flight, the executor
	// included; only the callers that actually joined another caller's fetch
	// count as deduplicated.
	if shared && !executed {
		c.noteSharedFetch()
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
