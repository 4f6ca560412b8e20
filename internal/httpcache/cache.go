// Package httpcache is an in-memory conditional-request cache. Each entry
// stores the last successfully fetched payload for a resource key together
// with its entity tag, so callers can serve fresh entries without a network
// call and revalidate stale ones with If-None-Match. Entries are never
// evicted: the key space is bounded by configured targets, branches, and
// pages, and lives only as long as the process.
package httpcache

import (
	"sync"
	"time"
)

// Entry is one cached resource. Next carries the page's resolved "next"
// link so a fully fresh page chain can be walked without touching the
// network; it is empty for non-paginated resources and final pages.
type Entry struct {
	Payload   []byte
	Next      string
	ETag      string
	FetchedAt time.Time
}

// Fresh reports whether the entry can be used without revalidation.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the entry stored under key, if any.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores a freshly fetched payload, replacing any prior entry.
func (c *Cache) Put(key string, payload []byte, next, etag string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Payload: payload, Next: next, ETag: etag, FetchedAt: now}
}

// Touch bumps the freshness timestamp of an existing entry without changing
// its payload or validator. Called when the remote reports "not modified".
// Touching an absent key is a no-op.
func (c *Cache) Touch(key string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.FetchedAt = now
	c.entries[key] = e
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
