// Package cache stores computed layouts and rendered diagrams so repeated
// runs over an unchanged project skip the expensive stages.
//
// Four backends share the [Cache] interface: a no-op cache for --no-cache,
// a sharded file cache for the CLI, an in-process LRU for the HTTP server,
// and Redis for servers that share results. [Open] picks one by name.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores rendered artifacts (layouts, SVG documents) by key.
//
// Get reports a miss with ok=false and a nil error; errors are reserved for
// backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Stats describes what a backend currently holds. Bytes is -1 when the
// backend cannot tell.
type Stats struct {
	Entries int
	Bytes   int64
}

// Inspector is implemented by backends that can report their contents.
type Inspector interface {
	Stats(ctx context.Context) (Stats, error)
}

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultTTL is how long artifacts stay cached when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Config selects and parameterizes a backend.
type Config struct {
	Backend  string // one of the Backend constants; empty means file
	Dir      string // file backend directory
	Size     int    // memory backend capacity in entries
	RedisURL string // redis backend connection URL
}

// Open constructs the backend named by cfg.Backend.
func Open(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMemory:
		c, err := NewMemoryCache(cfg.Size)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// NullCache misses on every read and drops every write.
type NullCache struct{}

// NewNullCache returns the cache used for --no-cache and backend "none".
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
func (NullCache) Stats(context.Context) (Stats, error) { return Stats{}, nil }

var (
	_ Cache     = NullCache{}
	_ Inspector = NullCache{}
)
