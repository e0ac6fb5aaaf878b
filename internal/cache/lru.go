package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a fixed-capacity memoization cache. When full, the least recently
// used entry is evicted to make room for a new one.
type LRU[K comparable, V any] struct {
	inner *lru.Cache[K, V]
	size  int
}

// NewLRU creates a cache holding at most size entries.
// A non-positive size is treated as 1.
func NewLRU[K comparable, V any](size int) *LRU[K, V] {
	if size < 1 {
		size = 1
	}
	inner, err := lru.New[K, V](size)
	if err != nil {
		// lru.New only fails for non-positive sizes, which are rejected above
		panic(err)
	}
	return &LRU[K, V]{inner: inner, size: size}
}

// Get returns the cached value for key and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	return c.inner.Get(key)
}

// Add stores value under key, evicting the oldest entry if the cache is full.
// Reports whether an eviction happened.
func (c *LRU[K, V]) Add(key K, value V) bool {
	return c.inner.Add(key, value)
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Values are only stored when load succeeds.
func (c *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.inner.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.inner.Add(key, v)
	return v, nil
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.inner.Len()
}

// Cap returns the maximum number of entries.
func (c *LRU[K, V]) Cap() int {
	return c.size
}

// Clear removes every entry.
func (c *LRU[K, V]) Clear() {
	c.inner.Purge()
}
