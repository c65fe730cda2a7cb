package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/uvmigrate/pkg/installer"
	"github.com/matzehuels/uvmigrate/pkg/pipeline"
)

// renderReport prints the human-readable run report.
func renderReport(r *pipeline.Report) {
	printKeyValue("run", r.RunID)
	printKeyValue("root", r.Root)
	printKeyValue("policy", string(r.Policy))
	printStats(len(r.Discovered), len(r.Legacy), r.DryRun)
	printNewline()

	rec := r.Reconciliation
	if rec != nil {
		if len(rec.NewlyDiscovered) > 0 {
			printInfo("Newly discovered: %s", joinStyled(rec.NewlyDiscovered, StyleHighlight))
		}
		if len(rec.RetainedLegacy) > 0 {
			printInfo("Retained from requirements.txt: %s", joinStyled(rec.RetainedLegacy, StyleValue))
		}
		for _, name := range rec.UnusedLegacyWarnings {
			printWarning("%s is in requirements.txt but never imported; not migrated", name)
		}
	}
	for _, name := range r.Unpublished {
		printWarning("%s does not exist on PyPI", name)
	}
	for _, w := range r.Warnings {
		printWarning("%s", w)
	}

	if r.DryRun {
		printNewline()
		if len(r.Planned) == 0 {
			printSuccess("Manifest already covers the target set; nothing to add")
			return
		}
		printInfo("Would add %d package(s):", len(r.Planned))
		for _, name := range r.Planned {
			printDetail("uv add %s", name)
		}
		return
	}

	renderOutcomes(r.Outcomes)

	printNewline()
	if failed := r.Failed(); len(failed) > 0 {
		printError("%d package(s) failed to install", len(failed))
		printNextStep("Retry a single package", "uv add <name>")
	} else {
		printSuccess("Manifest now declares %d package(s)", len(r.ManifestPackages))
	}
}

// renderOutcomes prints the per-package outcome table.
func renderOutcomes(outcomes []installer.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	printNewline()

	nameStyle := lipgloss.NewStyle().Width(24)
	for _, o := range outcomes {
		switch o.Status {
		case installer.StatusInstalled:
			fmt.Println("  " + styleIconSuccess.Render(iconSuccess) + " " + nameStyle.Render(o.Package) + StyleDim.Render("installed"))
		case installer.StatusSkipped:
			fmt.Println("  " + styleIconInfo.Render(iconInfo) + " " + nameStyle.Render(o.Package) + StyleDim.Render("already declared"))
		case installer.StatusFailed:
			fmt.Println("  " + styleIconError.Render(iconError) + " " + nameStyle.Render(o.Package) + StyleWarning.Render(string(o.Category)))
			if o.Diagnostic != "" {
				printDetail("%s", o.Diagnostic)
			}
		}
	}
}

// joinStyled renders names with a style, comma separated.
func joinStyled(names []string, style lipgloss.Style) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += StyleDim.Render(", ")
		}
		out += style.Render(n)
	}
	return out
}
