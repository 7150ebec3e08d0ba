package secrets

import (
	"context"
	"sync"
	"time"
)

// CachingStore wraps a Store with a TTL cache so the publish path does not
// pay a store round-trip on every request. Only successful lookups are
// cached; failures always hit the backing store on the next call.
type CachingStore struct {
	backend Store
	ttl     time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// NewCachingStore wraps backend with a TTL cache. A zero or negative TTL
// disables caching.
func NewCachingStore(backend Store, ttl time.Duration) *CachingStore {
	return &CachingStore{
		backend: backend,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached value when fresh, otherwise resolves through the
// backing store.
func (c *CachingStore) Get(ctx context.Context, name string) (string, error) {
	if c.ttl > 0 {
		c.mu.RLock()
		entry, ok := c.entries[name]
		c.mu.RUnlock()
		if ok && time.Now().Before(entry.expiresAt) {
			return entry.value, nil
		}
	}

	value, err := c.backend.Get(ctx, name)
	if err != nil {
		return "", err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[name] = cacheEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return value, nil
}

// Close closes the backing store.
func (c *CachingStore) Close() error {
	return c.backend.Close()
}
