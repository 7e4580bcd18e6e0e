// Package cache provides the bounded in-memory response cache shared by all
// upstream clients.
//
// Entries expire lazily: an expired entry is only removed when it is read.
// When the cache is full, the oldest inserted key is evicted first (FIFO).
// Overwriting an existing key keeps its original position in the queue.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultMaxEntries is the entry cap used when none is configured.
const DefaultMaxEntries = 1000

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Cache is a mutex protected TTL cache with a hard size cap.
type Cache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List // front = oldest insertion
	maxEntries int
	now        func() time.Time
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache holding at most maxEntries live entries.
// A non-positive maxEntries falls back to DefaultMaxEntries.
func New(maxEntries int, opts ...Option) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &Cache{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key. An entry whose expiry is at or
// before now is removed and reported absent.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.removeElement(el)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. Last write wins.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		return
	}

	for c.order.Len() >= c.maxEntries {
		c.removeElement(c.order.Front())
	}

	c.items[key] = c.order.PushBack(&entry{key: key, value: value, expiresAt: expiresAt})
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len reports the number of stored entries, including expired entries that
// have not been read since they expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// MaxEntries returns the configured cap.
func (c *Cache) MaxEntries() int {
	return c.maxEntries
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

func (c *Cache) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.items, e.key)
}

// Remember returns the cached value for key when present and of type T.
// Otherwise it calls load and caches a successful result for ttl.
// Errors are never cached.
func Remember[T any](c *Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}
