package httputil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/uvmigrate/pkg/cache"
	"github.com/matzehuels/uvmigrate/pkg/observability"
)

// Cache provides typed JSON caching of registry responses on top of a
// [cache.Cache] backend.
//
// Keys are namespaced with a prefix so different registries sharing one
// backend cannot collide. Expired and corrupt entries are misses, never
// errors; the backend decides how expiry works.
type Cache struct {
	backend cache.Cache
	prefix  string
	ttl     time.Duration
}

// NewCache wraps backend with JSON marshaling, a key prefix, and a TTL
// applied to every write. A nil backend disables caching.
func NewCache(backend cache.Cache, prefix string, ttl time.Duration) *Cache {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Cache{backend: backend, prefix: prefix, ttl: ttl}
}

// TTL returns the time-to-live applied to cache writes.
// A TTL of 0 means cache entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
// Return values indicate three distinct outcomes:
//   - (true, nil): Cache hit. The value was found, is fresh, and unmarshaled into v.
//   - (false, nil): Cache miss, expired entry, or corrupt entry. v is unchanged.
//   - (false, error): Backend I/O error. v is unchanged.
//
// The value v must be a pointer to a type compatible with json.Unmarshal.
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, hit, err := c.backend.Get(ctx, c.prefix+key)
	if err != nil {
		return false, err
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, c.prefix)
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupt entry, treat as miss and let the caller refetch
		observability.Cache().OnCacheMiss(ctx, c.prefix)
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, c.prefix)
	return true, nil
}

// Set stores a value in the cache under the given key.
//
// The value v is marshaled to JSON and handed to the backend with the
// cache's TTL. Set overwrites any existing entry for key, refreshing its
// expiry.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.prefix, len(data))
	return c.backend.Set(ctx, c.prefix+key, data, c.ttl)
}

// Namespace returns a view of the cache with an additional key prefix.
// Namespace calls can be chained to create hierarchical key spaces.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		backend: c.backend,
		prefix:  c.prefix + prefix,
		ttl:     c.ttl,
	}
}

// DefaultDir returns the per-user cache directory for registry responses.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "uvmigrate"), nil
}
