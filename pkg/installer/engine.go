package installer

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvmigrate/pkg/errors"
	"github.com/matzehuels/uvmigrate/pkg/observability"
	"github.com/matzehuels/uvmigrate/pkg/pyproject"
)

// Status is the terminal state of one package within a run.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome is one row of the per-package result table.
type Outcome struct {
	Package    string
	Status     Status
	Category   Category
	Diagnostic string
}

// Engine realizes a target set against the manifest through a Runner.
type Engine struct {
	runner Runner
	state  *pyproject.State
	logger *log.Logger
}

// New returns an engine bound to the given runner and manifest state. A nil
// logger falls back to the package default.
func New(runner Runner, state *pyproject.State, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{runner: runner, state: state, logger: logger}
}

// Install brings the manifest up to the target set. Packages already
// present are skipped without touching the runner. The remainder is
// attempted as one batch; if the batch fails, each package is retried
// alone so one broken package cannot sink the rest.
//
// The returned outcomes cover every target package. A non-nil error means
// the run was cut short (cancellation); outcomes accumulated before the
// cut are still valid and already committed.
func (e *Engine) Install(ctx context.Context, target []string) ([]Outcome, error) {
	missing := e.state.Missing(target)
	outcomes := make([]Outcome, 0, len(target))
	for _, name := range target {
		if e.state.Contains(name) {
			outcomes = append(outcomes, Outcome{Package: name, Status: StatusSkipped})
		}
	}

	// Anything that does not shape up as a package name must never reach
	// the external tool's argv.
	pending := make([]string, 0, len(missing))
	for _, name := range missing {
		if err := errors.ValidatePythonPackageName(name); err != nil {
			e.logger.Warn("refusing package with invalid name", "package", name, "reason", err)
			outcomes = append(outcomes, Outcome{
				Package:    name,
				Status:     StatusFailed,
				Category:   CategoryUnknown,
				Diagnostic: err.Error(),
			})
			continue
		}
		pending = append(pending, name)
	}
	missing = pending
	if len(missing) == 0 {
		return outcomes, nil
	}

	hooks := observability.Install()
	hooks.OnBatchStart(ctx, len(missing))
	batchErr := e.runner.Add(ctx, missing)
	hooks.OnBatchComplete(ctx, len(missing), batchErr)
	if batchErr == nil {
		e.state.Commit(missing...)
		for _, name := range missing {
			outcomes = append(outcomes, Outcome{Package: name, Status: StatusInstalled})
		}
		return outcomes, nil
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}

	batchCategory := Classify(batchErr)
	e.logger.Warn("batch install failed, retrying packages individually",
		"packages", len(missing), "category", string(batchCategory))

	for i, name := range missing {
		if err := ctx.Err(); err != nil {
			for _, rest := range missing[i:] {
				outcomes = append(outcomes, Outcome{
					Package:    rest,
					Status:     StatusFailed,
					Category:   CategoryUnknown,
					Diagnostic: "run cancelled before package was attempted",
				})
			}
			return outcomes, err
		}
		hooks.OnPackageStart(ctx, name)
		addErr := e.runner.Add(ctx, []string{name})
		if addErr == nil {
			e.state.Commit(name)
			outcomes = append(outcomes, Outcome{Package: name, Status: StatusInstalled})
			hooks.OnPackageComplete(ctx, name, "", nil)
			continue
		}
		category := Classify(addErr)
		diag := Diagnostic(category, addErr)
		e.logger.Warn("package install failed",
			"package", name, "category", string(category), "reason", diag)
		hooks.OnPackageComplete(ctx, name, string(category), addErr)
		outcomes = append(outcomes, Outcome{
			Package:    name,
			Status:     StatusFailed,
			Category:   category,
			Diagnostic: diag,
		})
	}
	return outcomes, nil
}

// Failed filters the outcome table down to the failures.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}
