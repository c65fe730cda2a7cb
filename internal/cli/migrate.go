package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uvmigrate/pkg/pipeline"
	"github.com/matzehuels/uvmigrate/pkg/reconcile"
)

// migrateCommand creates the migrate command, the main entry point.
func (c *CLI) migrateCommand() *cobra.Command {
	var (
		policy  string
		noCache bool
		jsonOut bool
		timeout time.Duration
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "migrate [project-root]",
		Short: "Discover imports, reconcile with requirements.txt, and run 'uv add'",
		Long: `Discover imports, reconcile with requirements.txt, and run 'uv add'.

The migrate command walks the project tree, extracts imports from .py modules
and .ipynb notebooks, canonicalizes them to PyPI distribution names, merges
the result with any legacy requirements.txt under the selected policy, and
installs missing packages through 'uv add'.

Packages that fail to install are reported individually and never abort the
run; everything already installed stays installed. Use --dry-run to preview
the exact target set without touching the manifest.

Policies:
  auto               keep imported legacy entries, warn about unused ones (default)
  all-requirements   migrate every legacy entry regardless of use
  only-imported      like auto, with verbose unused-entry reporting
  skip-requirements  ignore requirements.txt entirely`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = "."
			if len(args) == 1 {
				opts.Root = args[0]
			}
			opts.Policy = reconcile.Policy(policy)
			opts.InstallTimeout = timeout
			return c.runMigrate(cmd.Context(), opts, noCache, jsonOut, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", string(reconcile.PolicyAuto), "migration policy: auto, all-requirements, only-imported, skip-requirements")
	cmd.Flags().StringVar(&opts.Requirements, "requirements", "", "legacy requirements file (default <root>/requirements.txt)")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "project manifest (default <root>/pyproject.toml)")
	cmd.Flags().StringArrayVar(&opts.Ignore, "ignore", nil, "extra ignore patterns for the scan (repeatable)")
	cmd.Flags().BoolVar(&opts.SkipNotebooks, "skip-notebooks", false, "do not scan .ipynb notebooks")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "report what would be installed without running uv")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "check discovered names against the PyPI index before installing")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the registry cache during --verify")
	cmd.Flags().StringVar(&opts.UVPath, "uv", "", "path to the uv binary (default found on PATH)")
	cmd.Flags().DurationVar(&timeout, "timeout", pipeline.DefaultInstallTimeout, "per-invocation timeout for uv")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the registry cache")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the run report as JSON")

	return cmd
}

// runMigrate executes the full pipeline and renders the run report.
func (c *CLI) runMigrate(ctx context.Context, opts pipeline.Options, noCache, jsonOut bool, out io.Writer) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	report, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderReport(report)

	if failed := report.Failed(); len(failed) > 0 {
		prog.done(fmt.Sprintf("Migration finished with %d failed package(s)", len(failed)))
	} else if opts.DryRun {
		prog.done("Dry run complete")
	} else {
		prog.done("Migration complete")
	}
	return nil
}
