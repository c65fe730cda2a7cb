// Package httputil provides HTTP utilities for package registry clients.
//
// # Overview
//
// This package provides infrastructure used by registry API clients:
//
//   - [Cache]: Typed JSON caching of registry responses
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] layers JSON marshaling, key namespacing, and a TTL on top of a
// pluggable [cache.Cache] backend (file, Redis, or none). This speeds up
// repeated lookups and reduces load on package registries.
//
// Usage:
//
//	backend, _ := cache.NewFileCache(dir)
//	c := httputil.NewCache(backend, "pypi:", 24*time.Hour)
//	ok, _ := c.Get(ctx, "numpy", &info)
//	if !ok {
//	    info = fetchFromAPI()
//	    _ = c.Set(ctx, "numpy", info)
//	}
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped with [RetryableError] are retried; the delay doubles
// after each attempt.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/uvmigrate/ (see [DefaultDir])
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared by deleting the cache directory.
//
// [cache.Cache]: github.com/matzehuels/uvmigrate/pkg/cache.Cache
package httputil
