// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// This package contains low-level API clients for fetching package metadata
// from registries. Each registry has its own subpackage:
//
//   - [pypi]: Python Package Index
//
// # Client Pattern
//
// Registry clients follow a consistent pattern:
//
//	client := pypi.NewClient(backend, 24*time.Hour)  // cache backend + TTL
//	pkg, err := client.FetchPackage(ctx, "fastapi", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with retry and rate limiting
//   - Response caching (pluggable backend, configurable TTL)
//   - API-specific parsing and normalization
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by registry
// clients, including HTTP response caching via [cache.Cache].
//
// # Adding a New Registry
//
// To add support for a new package registry:
//
//  1. Create a subpackage: pkg/integrations/<registry>/
//  2. Define response structs matching the API schema
//  3. Implement a Client with FetchPackage method
//  4. Use [NewClient] for HTTP with caching
//
// [pypi]: github.com/matzehuels/uvmigrate/pkg/integrations/pypi
// [cache.Cache]: github.com/matzehuels/uvmigrate/pkg/cache.Cache
package integrations
