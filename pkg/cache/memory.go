package cache

import (
	"context"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize is the entry capacity of a memory cache created with a
// non-positive size.
const DefaultMemorySize = 1024

// MemoryCache is an in-process LRU cache, used by the HTTP server where
// artifacts are requested repeatedly for the same project.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an LRU cache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries, now: time.Now}, nil
}

// Get retrieves a value; expired entries are evicted and reported as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	return slices.Clone(e.data), true, nil
}

// Set stores a copy of data. A non-positive ttl never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: slices.Clone(data)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries.Add(key, e)
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Len returns the number of cached entries, including expired ones not yet
// evicted.
func (c *MemoryCache) Len() int { return c.entries.Len() }

// Stats counts live entries and their payload bytes.
func (c *MemoryCache) Stats(context.Context) (Stats, error) {
	now := c.now()
	var s Stats
	for _, key := range c.entries.Keys() {
		e, ok := c.entries.Peek(key)
		if !ok || (!e.expiresAt.IsZero() && now.After(e.expiresAt)) {
			continue
		}
		s.Entries++
		s.Bytes += int64(len(e.data))
	}
	return s, nil
}

// Close purges all entries.
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}

var (
	_ Cache     = (*MemoryCache)(nil)
	_ Inspector = (*MemoryCache)(nil)
)
