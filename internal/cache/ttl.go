package cache

import (
	"sync"
	"time"
)

// TTLCache is an in-memory read-through cache with per-entry expiry and
// explicit invalidation. Wall-clock expiry only bounds staleness; correctness
// relies on Invalidate being called after every successful mutation.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
}

type entry[V any] struct {
	expiresAt time.Time
	value     V
}

func NewTTLCache[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{
		items: make(map[K]entry[V]),
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().UTC().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return zero, false
	}
	return item.value, true
}

func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key] = entry[V]{
		expiresAt: time.Now().UTC().Add(ttl),
		value:     value,
	}
	c.mu.Unlock()
}

// Invalidate drops a single entry so the next read observes the store.
func (c *TTLCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// InvalidateAll drops every entry.
func (c *TTLCache[K, V]) InvalidateAll() {
	c.mu.Lock()
	c.items = make(map[K]entry[V])
	c.mu.Unlock()
}
