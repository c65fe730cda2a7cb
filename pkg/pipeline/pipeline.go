// Package pipeline provides the core migration pipeline for uvmigrate.
//
// This package implements the complete scan -> resolve -> reconcile -> install
// flow that can be used by the CLI and by embedding programs. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Scan: Walk the project tree and extract raw import names from Python
//     modules and notebooks
//  2. Resolve: Canonicalize import names to PyPI distribution names,
//     filtering out standard-library and local modules
//  3. Reconcile: Merge the discovered set with legacy requirements.txt
//     declarations under the configured policy
//  4. Install: Realize the target set against pyproject.toml through the
//     package manager, with per-package failure isolation
//
// A dry run executes the first three stages exactly as a real run would and
// suspends every side effect of the fourth.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cacheBackend, logger)
//	opts := pipeline.Options{
//	    Root:   "/path/to/project",
//	    Policy: reconcile.PolicyAuto,
//	}
//	report, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, o := range report.Failed() {
//	    fmt.Println(o.Package, o.Diagnostic)
//	}
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvmigrate/pkg/errors"
	"github.com/matzehuels/uvmigrate/pkg/installer"
	"github.com/matzehuels/uvmigrate/pkg/pyproject"
	"github.com/matzehuels/uvmigrate/pkg/reconcile"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Embedders
// =============================================================================

const (
	// DefaultRequirementsFile is the legacy manifest read during reconciliation.
	DefaultRequirementsFile = "requirements.txt"

	// DefaultCacheTTL is how long registry responses are cached for the
	// verification step.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultInstallTimeout bounds each package-manager invocation.
	DefaultInstallTimeout = installer.DefaultTimeout
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the migration pipeline.
// This struct supports JSON serialization for embedding programs.
type Options struct {
	// Root is the project directory to migrate. Required.
	Root string `json:"root"`

	// Manifest is the pyproject.toml path. Defaults to Root/pyproject.toml.
	Manifest string `json:"manifest,omitempty"`

	// Requirements is the legacy requirements.txt path.
	// Defaults to Root/requirements.txt; a missing file is not an error.
	Requirements string `json:"requirements,omitempty"`

	// Policy selects how legacy requirements merge with discovered imports.
	// Defaults to [reconcile.PolicyAuto].
	Policy reconcile.Policy `json:"policy,omitempty"`

	// Ignore lists extra directory/file patterns excluded from the scan,
	// on top of the built-in environment directories.
	Ignore []string `json:"ignore,omitempty"`

	// SkipNotebooks disables .ipynb extraction entirely.
	SkipNotebooks bool `json:"skip_notebooks,omitempty"`

	// DryRun reports what would change without touching the manifest or
	// spawning any subprocess.
	DryRun bool `json:"dry_run,omitempty"`

	// Verify checks each candidate package against PyPI before installing
	// and fails unpublished packages up front.
	Verify bool `json:"verify,omitempty"`

	// Refresh bypasses the registry cache during verification.
	Refresh bool `json:"refresh,omitempty"`

	// UVPath overrides the uv executable. Defaults to "uv" resolved via PATH.
	UVPath string `json:"uv_path,omitempty"`

	// InstallTimeout bounds each install call. Zero means DefaultInstallTimeout.
	InstallTimeout time.Duration `json:"install_timeout,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"`
	Runner installer.Runner `json:"-"` // overrides the uv runner, for tests and embedding

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateProjectRoot(o.Root); err != nil {
		return err
	}
	if o.Policy == "" {
		o.Policy = reconcile.PolicyAuto
	} else if _, err := reconcile.ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	if o.Manifest == "" {
		o.Manifest = filepath.Join(o.Root, pyproject.DefaultFile)
	}
	if o.Requirements == "" {
		o.Requirements = filepath.Join(o.Root, DefaultRequirementsFile)
	}
	if o.InstallTimeout <= 0 {
		o.InstallTimeout = DefaultInstallTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Report - Pipeline Outputs
// =============================================================================

// Report contains the outputs of a pipeline run.
type Report struct {
	// RunID uniquely identifies this run in logs and downstream tooling.
	RunID string `json:"run_id"`

	// Root is the project directory that was migrated.
	Root string `json:"root"`

	// Policy is the reconciliation policy that was applied.
	Policy reconcile.Policy `json:"policy"`

	// DryRun reports whether side effects were suspended.
	DryRun bool `json:"dry_run"`

	// Discovered is the sorted canonical set of distributions implied by
	// imports in the source tree.
	Discovered []string `json:"discovered"`

	// Legacy is the sorted canonical set declared in requirements.txt.
	Legacy []string `json:"legacy"`

	// Reconciliation is the policy merge of Legacy and Discovered.
	Reconciliation *reconcile.Result `json:"reconciliation"`

	// Unpublished lists target packages that failed registry verification.
	// Only populated when verification is enabled.
	Unpublished []string `json:"unpublished,omitempty"`

	// Planned lists the packages a dry run would have added.
	Planned []string `json:"planned,omitempty"`

	// Outcomes is the per-package install result table. In dry runs it
	// carries only verification failures.
	Outcomes []installer.Outcome `json:"outcomes,omitempty"`

	// ManifestPackages is the manifest's dependency set after the run.
	ManifestPackages []string `json:"manifest_packages"`

	// Warnings aggregates non-fatal diagnostics from every stage.
	Warnings []string `json:"warnings,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ModulesScanned   int           `json:"modules_scanned"`
	NotebooksScanned int           `json:"notebooks_scanned"`
	ImportsFound     int           `json:"imports_found"`
	ScanTime         time.Duration `json:"scan_time"`
	InstallTime      time.Duration `json:"install_time"`
	TotalTime        time.Duration `json:"total_time"`
}

// Failed filters the outcome table down to the failures.
func (r *Report) Failed() []installer.Outcome {
	return installer.Failed(r.Outcomes)
}

// Installed returns the packages confirmed added during this run.
func (r *Report) Installed() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Status == installer.StatusInstalled {
			out = append(out, o.Package)
		}
	}
	return out
}
