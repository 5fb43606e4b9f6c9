package secrets

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value      string
	expiration time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiration)
}

// InMemoryCache is a mutex-guarded Cache with per-entry TTL.
type InMemoryCache struct {
	entries    map[string]*cacheEntry
	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time
	mu         sync.Mutex
}

// NewInMemoryCache creates a cache. A maxSize of 0 means unlimited.
func NewInMemoryCache(defaultTTL time.Duration, maxSize int) *InMemoryCache {
	return &InMemoryCache{
		entries:    make(map[string]*cacheEntry),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if entry.isExpired(c.now()) {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

// Set stores value under key. A ttl of 0 uses the default TTL.
// When the cache is full the entry closest to expiry is evicted.
func (c *InMemoryCache) Set(key string, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		var (
			oldestKey  string
			oldestTime time.Time
		)
		for k, entry := range c.entries {
			if oldestKey == "" || entry.expiration.Before(oldestTime) {
				oldestKey, oldestTime = k, entry.expiration
			}
		}
		delete(c.entries, oldestKey)
	}

	c.entries[key] = &cacheEntry{value: value, expiration: c.now().Add(ttl)}
}

// Delete removes key from the cache.
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Size returns the number of unexpired entries.
func (c *InMemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if entry.isExpired(now) {
			delete(c.entries, key)
		}
	}
	return len(c.entries)
}
