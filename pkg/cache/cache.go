// Package cache provides pluggable byte caches for registry lookups.
//
// Three backends are available:
//   - FileCache: persistent, per-user directory cache for CLI usage
//   - RedisCache: shared cache for long-running or multi-machine setups
//   - NullCache: disables caching entirely
//
// All backends store opaque byte slices under string keys with an optional
// TTL. Expired or corrupt entries are treated as misses, never as errors.
package cache

import (
	"context"
	"time"
)

// Cache is the storage contract shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
