// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package issuer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLRUEviction(t *testing.T) {
	cache := NewCache(&CacheConfig{MaxSize: 2, TTL: time.Hour})

	cache.Set("a", []byte("A"))
	cache.Set("b", []byte("B"))

	// a becomes most recently used, so b is evicted next
	_, ok := cache.Get("a")
	require.True(t, ok)
	cache.Set("c", []byte("C"))

	_, ok = cache.Get("b")
	assert.False(t, ok)
	data, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A"), data)

	m := cache.Metrics()
	assert.Equal(t, int64(2), m.Size)
	assert.Equal(t, int64(1), m.Evictions)
	assert.Equal(t, int64(2), m.Hits)
	assert.Equal(t, int64(1), m.Misses)
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	cache := NewCache(&CacheConfig{MaxSize: 2, TTL: time.Hour})
	cache.Set("a", []byte("A"))
	cache.Set("b", []byte("B"))
	cache.Set("a", []byte("A2"))

	assert.Equal(t, int64(0), cache.Metrics().Evictions)
	data, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("A2"), data)
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCache(&CacheConfig{TTL: time.Minute})
	cache.now = func() time.Time { return now }

	cache.Set("profile", []byte("{}"))
	_, ok := cache.Get("profile")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("profile")
	assert.False(t, ok)
	assert.Equal(t, int64(1), cache.Metrics().Cleanups)
	assert.Equal(t, int64(0), cache.Metrics().Size)
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache(nil)
	src := []byte("data")
	cache.Set("k", src)
	src[0] = 'X'

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("data"), got)

	got[0] = 'Y'
	again, _ := cache.Get("k")
	assert.Equal(t, []byte("data"), again)
}

func TestCacheConfigDefaults(t *testing.T) {
	cache := NewCache(&CacheConfig{MaxSize: -1})
	cfg := cache.Config()
	assert.Equal(t, 0, cfg.MaxSize)
	assert.Equal(t, DefaultCacheConfig.TTL, cfg.TTL)
}

func TestCacheClearAndStats(t *testing.T) {
	cache := NewCache(&CacheConfig{MaxSize: 4, TTL: time.Hour})
	cache.Set("k", []byte("v"))
	cache.Get("k")
	cache.Get("missing")

	stats := cache.Stats()
	assert.Contains(t, stats, "Size: 1/4 entries")
	assert.Contains(t, stats, "Hit Rate: 50.0% (1 hits, 1 misses)")

	cache.Clear()
	assert.Equal(t, CacheMetrics{}, cache.Metrics())
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(&CacheConfig{MaxSize: 8, TTL: time.Hour})

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			cache.Set(key, []byte(key))
			cache.Get(key)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Metrics().Size, int64(8))
}
