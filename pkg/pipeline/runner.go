package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/uvmigrate/pkg/cache"
	"github.com/matzehuels/uvmigrate/pkg/canonical"
	"github.com/matzehuels/uvmigrate/pkg/errors"
	"github.com/matzehuels/uvmigrate/pkg/installer"
	"github.com/matzehuels/uvmigrate/pkg/integrations"
	"github.com/matzehuels/uvmigrate/pkg/integrations/pypi"
	"github.com/matzehuels/uvmigrate/pkg/observability"
	"github.com/matzehuels/uvmigrate/pkg/pyproject"
	"github.com/matzehuels/uvmigrate/pkg/pyscan"
	"github.com/matzehuels/uvmigrate/pkg/reconcile"
	"github.com/matzehuels/uvmigrate/pkg/requirements"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given registry cache backend.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// ScanOutput is the result of the scan and resolve stages.
type ScanOutput struct {
	// Result is the raw scan pass with per-file import records.
	Result *pyscan.Result

	// Discovered is the sorted canonical set of distributions implied by
	// the resolved records.
	Discovered []string
}

// Scan runs the scan and resolve stages only: walk the tree, extract
// imports, and canonicalize them to distribution names. No side effects.
func (r *Runner) Scan(ctx context.Context, opts Options) (*ScanOutput, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.loggerFor(opts)

	analyzer := pyscan.NewAnalyzer()
	var notebooks *pyscan.NotebookExtractor
	if !opts.SkipNotebooks {
		conv := pyscan.Converter{}
		if !opts.DryRun {
			// A dry run must spawn nothing, so the pure JSON strategy
			// handles notebooks there.
			conv = pyscan.ProbeConverter(ctx)
		}
		notebooks = pyscan.NewNotebookExtractor(analyzer, conv)
	}
	scanner := pyscan.NewScanner(analyzer, notebooks, opts.Ignore, logger)

	start := time.Now()
	observability.Scan().OnScanStart(ctx, opts.Root)
	res, err := scanner.Scan(ctx, opts.Root)
	files := 0
	if res != nil {
		files = res.Modules + res.Notebooks
	}
	observability.Scan().OnScanComplete(ctx, opts.Root, files, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	discovered := r.resolve(res, opts, logger)
	logger.Info("scanned project",
		"modules", res.Modules,
		"notebooks", res.Notebooks,
		"imports", len(res.Records),
		"packages", len(discovered),
		"duration", time.Since(start))

	return &ScanOutput{Result: res, Discovered: discovered}, nil
}

// resolve maps raw import records to a sorted canonical distribution set,
// dropping standard-library imports and the project's own modules.
func (r *Runner) resolve(res *pyscan.Result, opts Options, logger *log.Logger) []string {
	canon := canonical.New()
	local := localModules(opts.Root)

	set := make(map[string]struct{})
	for _, rec := range res.Resolved() {
		var name string
		var ok bool
		if rec.Origin == pyscan.OriginShellDirective {
			// Directives carry distribution names, not import names. The
			// text is notebook-authored, so anything that does not shape
			// up as a package name (paths, URLs, editable specs) is
			// rejected here rather than handed to the installer.
			name = canonical.Normalize(canonical.Strip(rec.Raw))
			if name == "" {
				continue
			}
			if err := errors.ValidatePythonPackageName(name); err != nil {
				logger.Warn("ignoring install directive token",
					"token", rec.Raw, "file", rec.Path, "line", rec.Line)
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"%s:%d: install directive token %q is not a package name, ignored",
					rec.Path, rec.Line, rec.Raw))
				continue
			}
			ok = true
		} else {
			if _, isLocal := local[strings.ToLower(rec.Raw)]; isLocal {
				logger.Debug("skipping local module", "module", rec.Raw, "file", rec.Path)
				continue
			}
			name, ok = canon.Canonicalize(rec.Raw)
		}
		if !ok {
			continue
		}
		set[name] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Execute runs the complete scan -> resolve -> reconcile -> install pipeline.
//
// Partial install failure is not an error: the report's outcome table
// carries per-package failures. A non-nil error means the run could not
// proceed at all (bad configuration, unreadable project, cancellation).
func (r *Runner) Execute(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.loggerFor(opts)
	start := time.Now()

	report := &Report{
		RunID:  uuid.NewString(),
		Root:   opts.Root,
		Policy: opts.Policy,
		DryRun: opts.DryRun,
	}

	// The manifest must exist before anything else runs; reconciliation
	// and installation both key off it.
	state, err := pyproject.Load(opts.Manifest)
	if err != nil {
		return nil, err
	}

	// Stage 1+2: Scan and resolve
	scanStart := time.Now()
	scan, err := r.Scan(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	report.Discovered = scan.Discovered
	report.Warnings = append(report.Warnings, scan.Result.Warnings...)
	report.Stats.ModulesScanned = scan.Result.Modules
	report.Stats.NotebooksScanned = scan.Result.Notebooks
	report.Stats.ImportsFound = len(scan.Result.Records)
	report.Stats.ScanTime = time.Since(scanStart)

	// Stage 3: Reconcile with legacy requirements
	legacy, err := requirements.ReadFile(opts.Requirements)
	if err != nil {
		return nil, fmt.Errorf("read requirements: %w", err)
	}
	if legacy.Found {
		logger.Info("read legacy requirements",
			"file", opts.Requirements, "packages", len(legacy.Requirements))
	} else {
		logger.Debug("no legacy requirements file", "file", opts.Requirements)
	}
	report.Warnings = append(report.Warnings, legacy.Warnings...)
	report.Legacy = sortedCanonical(legacy.Names())

	rec := reconcile.Reconcile(legacy.Names(), scan.Discovered, opts.Policy)
	report.Reconciliation = rec
	logger.Info("reconciled dependency sets",
		"policy", string(opts.Policy),
		"target", len(rec.TargetSet),
		"new", len(rec.NewlyDiscovered))

	target := rec.TargetSet

	// Optional registry verification before any install call
	if opts.Verify {
		target, err = r.verify(ctx, target, state, opts, report, logger)
		if err != nil {
			return nil, err
		}
	}

	// Stage 4: Install
	if opts.DryRun {
		report.Planned = state.Missing(target)
		logger.Info("dry run, not installing", "would_add", len(report.Planned))
	} else {
		installStart := time.Now()
		runner := opts.Runner
		if runner == nil {
			uv := installer.NewUVRunner(opts.Root)
			if opts.UVPath != "" {
				uv.Path = opts.UVPath
			}
			uv.Timeout = opts.InstallTimeout
			runner = uv
		}
		engine := installer.New(runner, state, logger)
		outcomes, err := engine.Install(ctx, target)
		report.Outcomes = append(report.Outcomes, outcomes...)
		report.Stats.InstallTime = time.Since(installStart)
		if err != nil {
			report.ManifestPackages = state.Names()
			report.Stats.TotalTime = time.Since(start)
			return report, err
		}
	}

	report.ManifestPackages = state.Names()
	report.Stats.TotalTime = time.Since(start)
	return report, nil
}

// verify checks every not-yet-declared target against PyPI and fails the
// unpublished ones up front so the installer never sees them.
func (r *Runner) verify(ctx context.Context, target []string, state *pyproject.State, opts Options, report *Report, logger *log.Logger) ([]string, error) {
	client := pypi.NewClient(r.Cache, DefaultCacheTTL)

	kept := make([]string, 0, len(target))
	for _, name := range target {
		if state.Contains(name) {
			kept = append(kept, name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var exists bool
		var err error
		if opts.Refresh {
			_, err = client.FetchPackage(ctx, name, true)
			exists = err == nil
			if err != nil && stderrors.Is(err, integrations.ErrNotFound) {
				err = nil
			}
		} else {
			exists, err = client.Exists(ctx, name)
		}
		if err != nil {
			// Verification is best-effort: a registry outage must not block
			// the migration, so the package passes through unverified.
			logger.Warn("could not verify package, keeping it", "package", name, "err", err)
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("could not verify %s against pypi: %v", name, err))
			kept = append(kept, name)
			continue
		}
		if exists {
			kept = append(kept, name)
			continue
		}
		logger.Warn("package not published on pypi", "package", name)
		report.Unpublished = append(report.Unpublished, name)
		report.Outcomes = append(report.Outcomes, installer.Outcome{
			Package:    name,
			Status:     installer.StatusFailed,
			Category:   installer.CategoryNotFound,
			Diagnostic: "package does not exist in the registry",
		})
	}
	return kept, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) loggerFor(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// localModules lists top-level module names belonging to the project
// itself, so "import myapp" never becomes a dependency on a PyPI package
// that happens to share the name.
func localModules(root string) map[string]struct{} {
	local := make(map[string]struct{})
	entries, err := os.ReadDir(root)
	if err != nil {
		return local
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			local[strings.ToLower(name)] = struct{}{}
			continue
		}
		if strings.HasSuffix(name, ".py") {
			local[strings.ToLower(strings.TrimSuffix(name, ".py"))] = struct{}{}
		}
	}
	return local
}

func sortedCanonical(names []string) []string {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		key := canonical.Normalize(canonical.Strip(n))
		if key != "" {
			set[key] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
