package pyscan

import "fmt"

// Origin identifies where an import record was found.
type Origin string

// Import record origins.
const (
	OriginModule         Origin = "plain_module"
	OriginNotebookCell   Origin = "notebook_cell"
	OriginShellDirective Origin = "shell_directive"
)

// ImportRecord is one raw import identifier found during a scan. Records are
// transient: they exist only until canonicalization maps them to
// distribution names.
type ImportRecord struct {
	Raw    string // Top-level module name as written ("numpy" for "import numpy.linalg")
	Path   string // Source file the import came from
	Line   int    // 1-based line number (cell-relative inside notebooks)
	Origin Origin

	// Unresolved marks imports that cannot be mapped to a package name:
	// wildcard imports and relative imports. They are recorded for
	// diagnostics but excluded from the dependency set.
	Unresolved bool
}

func (r ImportRecord) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", r.Path, r.Line, r.Raw, r.Origin)
}

// Extraction is the common result shape shared by the static analyzer and
// every notebook strategy.
type Extraction struct {
	Records  []ImportRecord
	Warnings []string
}

// merge appends another extraction's records and warnings.
func (e *Extraction) merge(other *Extraction) {
	if other == nil {
		return
	}
	e.Records = append(e.Records, other.Records...)
	e.Warnings = append(e.Warnings, other.Warnings...)
}

// Resolved returns the records usable for dependency mapping, excluding
// wildcard/relative imports.
func (e *Extraction) Resolved() []ImportRecord {
	var out []ImportRecord
	for _, r := range e.Records {
		if !r.Unresolved {
			out = append(out, r)
		}
	}
	return out
}
