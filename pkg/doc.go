// Package pkg provides the core libraries for uvmigrate dependency migration.
//
// # Overview
//
// uvmigrate moves an existing Python project onto uv-managed dependencies.
// It discovers what the code actually imports, maps those imports to PyPI
// distribution names, reconciles them with whatever a legacy
// requirements.txt still pins, and drives 'uv add' to realize the result.
// The pkg directory is organized into three main areas:
//
//  1. Discovery (pyscan, canonical, requirements, pyproject)
//  2. Decision and execution (reconcile, installer, pipeline)
//  3. Infrastructure (cache, httputil, integrations, errors, observability)
//
// # Architecture
//
// The typical data flow through uvmigrate:
//
//	Project tree (.py modules, .ipynb notebooks)
//	         ↓
//	    [pyscan] package (walk + structural import extraction)
//	         ↓
//	    [canonical] package (import name → distribution name)
//	         ↓
//	    [reconcile] package (merge with requirements.txt under a policy)
//	         ↓
//	    [installer] package (batch 'uv add', per-package fallback)
//	         ↓
//	    pyproject.toml owned by uv
//
// # Quick Start
//
// Run the full migration pipeline:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/uvmigrate/pkg/pipeline"
//	    "github.com/matzehuels/uvmigrate/pkg/reconcile"
//	)
//
//	runner := pipeline.NewRunner(nil, nil)
//	report, err := runner.Execute(context.Background(), pipeline.Options{
//	    Root:   "/path/to/project",
//	    Policy: reconcile.PolicyAuto,
//	    DryRun: true,
//	})
//
// # Main Packages
//
// ## Discovery
//
// [pyscan] - Read-only project walk plus structural import extraction with
// tree-sitter. Notebooks go through an external converter when one is
// available and a direct JSON cell walk otherwise; inline '!pip install'
// directives are recognized in both paths.
//
// [canonical] - PEP 503 name normalization, the import→distribution alias
// table (bs4 → beautifulsoup4), and the Python standard-library filter.
//
// [requirements] - Tolerant line-oriented reader for legacy
// requirements.txt files; malformed lines are retained with a warning.
//
// [pyproject] - The dependency state of pyproject.toml. Read once at start;
// the file itself is only ever mutated through 'uv add'.
//
// ## Decision and execution
//
// [reconcile] - Pure merge of the legacy and discovered sets under one of
// four policies (auto, all-requirements, only-imported, skip-requirements).
//
// [installer] - Drives 'uv add': one batch attempt, then sequential
// per-package fallback with ordered failure classification (wheel
// availability, version conflicts, network failures, unknown names).
//
// [pipeline] - Orchestration: scan → resolve → reconcile → install, with a
// per-run Report. Dry runs produce the identical reconciliation with no
// side effects.
//
// ## Infrastructure
//
// [cache] - Cache interface with file, Redis and null backends, used by the
// registry client behind --verify.
//
// [httputil] / [integrations] - Typed JSON caching, retry with backoff, and
// the PyPI JSON API client for pre-install existence checks.
//
// [errors] - Structured error codes (INVALID_POLICY, INVALID_MANIFEST,
// INSTALL_* categories) compatible with errors.Is.
//
// [observability] - Scan, install, cache and HTTP hooks with no-op defaults.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/pyscan/...             # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [pyscan]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/pyscan
// [canonical]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/canonical
// [requirements]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/requirements
// [pyproject]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/pyproject
// [reconcile]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/reconcile
// [installer]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/installer
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/httputil
// [integrations]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/integrations
// [errors]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/uvmigrate/pkg/observability
package pkg
