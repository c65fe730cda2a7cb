package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uvmigrate/pkg/pipeline"
)

// scanCommand creates the scan command for discovery without side effects.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		jsonOut bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "scan [project-root]",
		Short: "Discover imports and print the canonical dependency set",
		Long: `Discover imports and print the canonical dependency set.

The scan command walks the project tree and extracts imports from .py modules
and .ipynb notebooks, then maps each import to its PyPI distribution name.
Nothing is installed and no file is modified; use it to preview what
'migrate' would work with.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = "."
			if len(args) == 1 {
				opts.Root = args[0]
			}
			return c.runScan(cmd.Context(), opts, jsonOut, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVar(&opts.Ignore, "ignore", nil, "extra ignore patterns for the scan (repeatable)")
	cmd.Flags().BoolVar(&opts.SkipNotebooks, "skip-notebooks", false, "do not scan .ipynb notebooks")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit records and the canonical set as JSON")

	return cmd
}

// runScan performs discovery and prints records plus the canonical set.
func (c *CLI) runScan(ctx context.Context, opts pipeline.Options, jsonOut bool, out io.Writer) error {
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Scanning project...")
	spinner.Start()
	res, err := pipeline.NewRunner(nil, c.Logger).Scan(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Records    any      `json:"records"`
			Discovered []string `json:"discovered"`
			Warnings   []string `json:"warnings,omitempty"`
		}{res.Result.Records, res.Discovered, res.Result.Warnings})
	}

	printInfo("Scanned %d module(s), %d notebook(s)", res.Result.Modules, res.Result.Notebooks)
	for _, rec := range res.Result.Resolved() {
		printDetail("%s:%d  %s  (%s)", rec.Path, rec.Line, rec.Raw, rec.Origin)
	}
	for _, w := range res.Result.Warnings {
		printWarning("%s", w)
	}

	printNewline()
	if len(res.Discovered) == 0 {
		printInfo("No third-party dependencies discovered")
		return nil
	}
	printInfo("Discovered %d distribution(s):", len(res.Discovered))
	for _, name := range res.Discovered {
		fmt.Println("  " + StyleValue.Render(name))
	}
	return nil
}
