// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package issuer

import (
	"fmt"
	"sync"
	"time"
)

// CacheConfig holds configuration for the document cache
type CacheConfig struct {
	MaxSize int           // Maximum number of documents to cache (0 = unlimited)
	TTL     time.Duration // How long a fetched document stays fresh
}

// CacheMetrics tracks cache performance and usage
type CacheMetrics struct {
	Size        int64 // Current number of cached documents
	Hits        int64 // Number of cache hits
	Misses      int64 // Number of cache misses
	Evictions   int64 // Number of LRU evictions
	Cleanups    int64 // Number of expired entries removed
	TotalMemory int64 // Approximate memory usage in bytes
}

// DefaultCacheConfig is used when NewCache is given nil.
var DefaultCacheConfig = CacheConfig{
	MaxSize: 64,
	TTL:     10 * time.Minute,
}

type cacheEntry struct {
	data      []byte
	fetchedAt time.Time
}

// Cache is an LRU cache for issuer profiles and revocation lists keyed by URL.
//
// Expired entries are dropped lazily on access; the cache never starts a
// goroutine.
type Cache struct {
	mu      sync.Mutex
	config  CacheConfig
	entries map[string]*cacheEntry
	order   []string // least recently used first
	metrics CacheMetrics
	now     func() time.Time
}

// NewCache creates a cache. Negative sizes mean unlimited, a non-positive TTL
// falls back to the default.
func NewCache(config *CacheConfig) *Cache {
	cfg := DefaultCacheConfig
	if config != nil {
		cfg = *config
	}
	if cfg.MaxSize < 0 {
		cfg.MaxSize = 0
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheConfig.TTL
	}
	return &Cache{
		config:  cfg,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// Config returns a copy of the cache configuration.
func (c *Cache) Config() CacheConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

func (c *Cache) fresh(e *cacheEntry) bool {
	return c.now().Sub(e.fetchedAt) < c.config.TTL
}

// Get returns a copy of a fresh cached document.
func (c *Cache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()

	entry, ok := c.entries[url]
	if !ok {
		c.metrics.Misses++
		return nil, false
	}

	c.metrics.Hits++
	c.touchLocked(url)

	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	return data, true
}

// Set stores a copy of data, evicting the least recently used entry when full.
func (c *Cache) Set(url string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[url]; !exists {
		for c.config.MaxSize > 0 && len(c.entries) >= c.config.MaxSize && len(c.order) > 0 {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
			c.metrics.Evictions++
		}
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	c.entries[url] = &cacheEntry{data: stored, fetchedAt: c.now()}
	c.touchLocked(url)
}

// Clear drops every entry and resets metrics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = nil
	c.metrics = CacheMetrics{}
}

// Metrics returns current cache metrics.
func (c *Cache) Metrics() CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.metrics
	m.Size = int64(len(c.entries))
	for url, e := range c.entries {
		m.TotalMemory += int64(len(e.data)) + int64(len(url)) + 24
	}
	return m
}

// Stats returns a formatted string with cache statistics
func (c *Cache) Stats() string {
	m := c.Metrics()
	cfg := c.Config()

	hitRate := float64(0)
	if total := m.Hits + m.Misses; total > 0 {
		hitRate = float64(m.Hits) / float64(total) * 100
	}

	return fmt.Sprintf("Issuer Cache Statistics:\n"+
		"  Size: %d/%d entries\n"+
		"  Memory Usage: %.2f KB\n"+
		"  Hit Rate: %.1f%% (%d hits, %d misses)\n"+
		"  Evictions: %d\n"+
		"  Cleanups: %d\n"+
		"  TTL: %v",
		m.Size, cfg.MaxSize,
		float64(m.TotalMemory)/1024,
		hitRate, m.Hits, m.Misses,
		m.Evictions,
		m.Cleanups,
		cfg.TTL)
}

func (c *Cache) cleanupLocked() {
	for url, e := range c.entries {
		if c.fresh(e) {
			continue
		}
		delete(c.entries, url)
		c.removeOrderLocked(url)
		c.metrics.Cleanups++
	}
}

func (c *Cache) touchLocked(url string) {
	c.removeOrderLocked(url)
	c.order = append(c.order, url)
}

func (c *Cache) removeOrderLocked(url string) {
	for i, u := range c.order {
		if u == url {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
