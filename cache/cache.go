// Package cache provides an in-memory TTL cache used to bound upstream call
// volume. Entries are immutable once written and replaced wholesale on
// refresh; expired entries behave identically to misses and are evicted
// lazily on the next read, not by a background timer.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the default entry lifetime.
const DefaultTTL = 15 * time.Minute

// Cache is a concurrency-safe TTL cache memoizing values of type V.
//
// GetOrFetch guarantees at most one in-flight fetch per key: concurrent
// callers racing on the same missing key share the outcome of the first
// caller's fetch instead of issuing redundant upstream calls. Keys are
// coordinated independently; there is no global lock across unrelated keys.
type Cache[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithTTL sets the entry lifetime. Defaults to DefaultTTL.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(c *Cache[V]) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, used in tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

// New creates an empty Cache.
func New[V any](opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key, or false on a miss. An expired
// entry is a miss and is evicted before returning.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: another goroutine may have
		// replaced the entry since the read.
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key. The entry is swapped atomically; readers
// never observe a half-written entry.
func (c *Cache[V]) Put(key string, value V) {
	e := entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// GetOrFetch returns the cached value for key, fetching and storing it on a
// miss. Concurrent callers on the same key share a single fetch; the fetch
// error is returned to all of them and nothing is cached on failure.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have populated the entry between the miss
		// above and acquiring the flight.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Put(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Len returns the number of stored entries, including any not yet evicted
// expired ones.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
