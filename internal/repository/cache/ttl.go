package cache

import (
	"sync"
	"time"
)

// CacheDuration 默认缓存时长
const CacheDuration = 2 * time.Minute

// Entry 带过期时间的缓存数据
type Entry[T any] struct {
	Data       T
	InsertedAt time.Time
	ExpiresAt  time.Time
}

// IsExpired 检查在 now 时刻是否已过期
func (e *Entry[T]) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TTL is a key/value map whose entries expire lazily on read. There is no
// size bound; Sweep drops expired entries nobody reads any more.
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*Entry[V]
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewTTL creates a TTL map. A non-positive ttl falls back to CacheDuration.
func NewTTL[K comparable, V any](ttl time.Duration, opts ...Option) *TTL[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = CacheDuration
	}
	return &TTL[K, V]{
		entries: make(map[K]*Entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// Set stores value with expiresAt = now + ttl, replacing any previous entry.
func (c *TTL[K, V]) Set(key K, value V) {
	now := c.now()
	c.mu.Lock()
	c.entries[key] = &Entry[V]{
		Data:       value,
		InsertedAt: now,
		ExpiresAt:  now.Add(c.ttl),
	}
	c.mu.Unlock()
}

// Get returns the value while now <= expiresAt. An expired entry is purged
// and reported as a miss.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if e.IsExpired(c.now()) {
		c.mu.Lock()
		// 只删除同一个过期条目，避免误删并发写入的新值
		if cur, ok := c.entries[key]; ok && cur == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.Data, true
}

// Invalidate removes key.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Sweep removes every expired entry and returns the removed values.
func (c *TTL[K, V]) Sweep() []V {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed []V
	for k, e := range c.entries {
		if e.IsExpired(now) {
			delete(c.entries, k)
			removed = append(removed, e.Data)
		}
	}
	return removed
}

// Len counts stored entries, expired ones included until they are read.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
