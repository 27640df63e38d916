// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     cache
// Description: Thread-safe LRU cache with per-entry expiration
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config holds cache configuration
type Config struct {
	MaxItems int
	TTL      time.Duration
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxItems: 256,
		TTL:      10 * time.Minute,
	}
}

// Stats is a snapshot of the cache counters
type Stats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

type entry[V any] struct {
	key        string
	value      V
	expiration time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

// Cache keeps at most MaxItems values; the least recently used one is
// evicted first. Expired values are dropped on access.
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	maxItems int
	ttl      time.Duration
	now      func() time.Time

	hits   int64
	misses int64
}

// New creates a new cache instance
func New[V any](cfg Config) *Cache[V] {
	def := DefaultConfig()
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = def.MaxItems
	}
	if cfg.TTL < 0 {
		cfg.TTL = 0
	}

	return &Cache[V]{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}

	e := elem.Value.(*entry[V])
	if e.expired(c.now()) {
		c.removeElement(elem)
		c.misses++
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return e.value, true
}

// Set stores a value with the default TTL (0 = never expires)
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value = value
		e.expiration = exp
		c.order.MoveToFront(elem)
		return
	}

	for c.order.Len() >= c.maxItems {
		c.removeElement(c.order.Back())
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, expiration: exp})
}

// GetOrSet returns the cached value or stores the result of fn
func (c *Cache[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}

	val, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, val)
	return val, nil
}

// Len returns the number of items in the cache, expired ones included
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns cache statistics
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Size: c.order.Len(), Hits: c.hits, Misses: c.misses}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}
	return s
}

// removeElement must be called with the lock held
func (c *Cache[V]) removeElement(elem *list.Element) {
	e := c.order.Remove(elem).(*entry[V])
	delete(c.items, e.key)
}
