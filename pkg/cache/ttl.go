package cache

import "time"

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache wraps LRUCache with per-entry expiry on top of capacity-based
// eviction. Expired entries are dropped lazily on Get; capacity still bounds
// memory between reads.
type TTLCache[K comparable, V any] struct {
	inner *LRUCache[K, ttlEntry[V]]
	ttl   time.Duration
	now   func() time.Time
}

// NewTTLCache creates a TTL cache with the given capacity and entry
// lifetime. Panics on non-positive capacity or ttl.
func NewTTLCache[K comparable, V any](capacity int, ttl time.Duration) *TTLCache[K, V] {
	if ttl <= 0 {
		panic("TTL cache lifetime must be positive")
	}
	return &TTLCache[K, V]{
		inner: NewLRUCache[K, ttlEntry[V]](capacity),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves an unexpired value and marks it as recently used. An
// expired entry is removed and reported as a miss.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	entry, ok := c.inner.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(entry.expiresAt) {
		c.inner.Remove(key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Put adds or refreshes a value, resetting its expiry.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.inner.Put(key, ttlEntry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Remove drops an entry regardless of expiry.
func (c *TTLCache[K, V]) Remove(key K) {
	c.inner.Remove(key)
}

// Clear removes all entries.
func (c *TTLCache[K, V]) Clear() {
	c.inner.Clear()
}
