// Package cache provides a generic in-memory key-value store with per-entry
// TTL expiry. Entries are reaped lazily on read and by a periodic background
// sweep. For multi-process deployments this should be replaced by Redis; a
// single API server only needs process-local deduplication.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats reports the current cache contents.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Cache is a TTL key-value store safe for concurrent use. Construct with
// New and release the sweep goroutine with Stop; tests can create isolated
// instances instead of sharing process-global state.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]

	sweepTicker *time.Ticker
	sweepStop   chan struct{}
	stopOnce    sync.Once
}

// DefaultSweepInterval is how often the background sweep removes expired
// entries when no interval is given.
const DefaultSweepInterval = 5 * time.Minute

// New creates a cache and starts its background sweep. A non-positive
// sweepInterval disables the sweep; expired entries are then only removed
// on read.
func New[V any](sweepInterval time.Duration) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
	}
	if sweepInterval > 0 {
		c.sweepTicker = time.NewTicker(sweepInterval)
		c.sweepStop = make(chan struct{})
		go c.sweepLoop()
	}
	return c
}

// Set stores value under key, overwriting any existing entry. The expiry is
// absolute, computed once at insertion time.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(ttl)}
}

// Get returns the live value for key. An expired entry is deleted and
// reported as a miss, so a Get can shrink the cache as a side effect.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Delete removes key, reporting whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Cleanup removes every expired entry. The background sweep calls this on
// its interval; it is exported so callers can force a sweep.
func (c *Cache[V]) Cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// GetStats returns the current size and key set. Expired-but-unswept
// entries still count until a Get or Cleanup removes them.
func (c *Cache[V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return Stats{Size: len(c.entries), Keys: keys}
}

// Stop cancels the background sweep. Safe to call more than once.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() {
		if c.sweepTicker != nil {
			c.sweepTicker.Stop()
		}
		if c.sweepStop != nil {
			close(c.sweepStop)
		}
	})
}

func (c *Cache[V]) sweepLoop() {
	for {
		select {
		case <-c.sweepTicker.C:
			c.Cleanup()
		case <-c.sweepStop:
			return
		}
	}
}
