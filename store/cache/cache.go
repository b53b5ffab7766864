// Package cache provides a small in-memory TTL cache used to keep hot
// conversation documents out of the database on read.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL bounds how stale a cached entry may get. Writes go
	// through the cache, so the TTL only matters for entries written by
	// another process sharing the database.
	DefaultTTL = 5 * time.Minute
	// DefaultMaxItems caps memory use under many distinct users.
	DefaultMaxItems = 1000

	cleanupInterval = time.Minute
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL cache with a hard item cap. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	items    map[string]entry
	ttl      time.Duration
	maxItems int

	stopOnce sync.Once
	stop     chan struct{}
}

// Config tunes the cache. Zero values fall back to the defaults.
type Config struct {
	TTL      time.Duration
	MaxItems int
}

// New creates a cache and starts its expiry janitor.
func New(config Config) *Cache {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.MaxItems <= 0 {
		config.MaxItems = DefaultMaxItems
	}
	c := &Cache{
		items:    make(map[string]entry),
		ttl:      config.TTL,
		maxItems: config.MaxItems,
		stop:     make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the cached value for key, or false if absent or expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. When the cache is full, an arbitrary expired
// entry is reclaimed first; if none is expired the write is dropped rather
// than evicting a live entry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		if !c.reclaimExpiredLocked() {
			return
		}
	}
	c.items[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len reports the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the janitor.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) reclaimExpiredLocked() bool {
	now := time.Now()
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
			return true
		}
	}
	return false
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.items {
				if now.After(e.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
