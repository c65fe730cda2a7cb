// Package pypi provides an HTTP client for the Python Package Index API.
//
// # Overview
//
// This package fetches package metadata from PyPI (https://pypi.org), the
// official repository for Python packages. It backs the pre-install
// verification step that checks whether a discovered distribution actually
// exists before handing it to the installer.
//
// # Usage
//
//	client := pypi.NewClient(backend, 24*time.Hour)  // cache backend + TTL
//
//	ok, err := client.Exists(ctx, "fastapi")
//
//	pkg, err := client.FetchPackage(ctx, "fastapi", false)  // false = use cache
//	fmt.Println(pkg.Name, pkg.Version)
//	fmt.Println("Dependencies:", pkg.Dependencies)
//
// # PackageInfo
//
// [Client.FetchPackage] returns a [PackageInfo] containing:
//
//   - Name, Version: Package identity
//   - Dependencies: Direct runtime dependencies (extras/dev filtered out)
//   - Summary: Package description
//   - License, Author: Package metadata
//   - ProjectURLs, HomePage: Links for enrichment
//
// # Caching
//
// Responses are cached to reduce load on PyPI and speed up repeated requests.
// The cache TTL is set when creating the client. Pass refresh=true to
// [Client.FetchPackage] to bypass the cache.
//
// # Dependency Filtering
//
// Dependencies are extracted from requires_dist, filtering out:
//
//   - Optional extras (extra markers)
//   - Development dependencies (dev markers)
//   - Test dependencies (test markers)
//
// Package names are normalized following PEP 503.
package pypi
