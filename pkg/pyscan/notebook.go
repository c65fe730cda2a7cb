package pyscan

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Strategy extracts import records from a notebook document. Strategies are
// interchangeable: each returns the common Extraction shape or an error that
// means "try the next one".
type Strategy interface {
	Name() string
	Extract(ctx context.Context, path string, data []byte) (*Extraction, error)
}

// NotebookExtractor tries an ordered list of strategies, first success wins.
//
// A malformed or empty notebook yields an empty extraction with a warning,
// never an error that would stop the overall scan.
type NotebookExtractor struct {
	strategies []Strategy
}

// NewNotebookExtractor builds the standard strategy order: the converter
// first (when available), then the direct JSON walk. The converter
// capability is probed once by the caller and passed in; an unavailable
// converter simply drops the primary strategy.
func NewNotebookExtractor(analyzer *Analyzer, conv Converter) *NotebookExtractor {
	var strategies []Strategy
	if conv.Available {
		strategies = append(strategies, &converterStrategy{analyzer: analyzer, conv: conv})
	}
	strategies = append(strategies, &jsonStrategy{analyzer: analyzer})
	return &NotebookExtractor{strategies: strategies}
}

// Extract runs the strategies in order and returns the first success. When
// every strategy fails the notebook is skipped with a warning.
func (e *NotebookExtractor) Extract(ctx context.Context, path string, data []byte) *Extraction {
	var failures []string
	for _, s := range e.strategies {
		ext, err := s.Extract(ctx, path, data)
		if err == nil {
			return ext
		}
		failures = append(failures, fmt.Sprintf("%s: %v", s.Name(), err))
	}
	return &Extraction{Warnings: []string{
		fmt.Sprintf("%s: skipped, no strategy could read it (%s)", path, strings.Join(failures, "; ")),
	}}
}

// converterStrategy flattens the notebook to script text with the external
// converter and feeds the result to the static analyzer.
type converterStrategy struct {
	analyzer *Analyzer
	conv     Converter
}

func (s *converterStrategy) Name() string { return "nbconvert" }

func (s *converterStrategy) Extract(ctx context.Context, path string, data []byte) (*Extraction, error) {
	script, err := s.conv.Convert(ctx, path)
	if err != nil {
		return nil, err
	}
	ext, err := s.analyzer.Analyze(ctx, path, script, OriginNotebookCell)
	if err != nil {
		return nil, err
	}
	// nbconvert rewrites shell escapes and magics into get_ipython() calls;
	// unwrap those so "!pip install" deps are not lost.
	for i, line := range strings.Split(string(script), "\n") {
		ext.Records = append(ext.Records, shellDirectivePackages(unwrapMagic(line), path, i+1)...)
	}
	return ext, nil
}

var (
	systemCallRE = regexp.MustCompile(`get_ipython\(\)\.system\(\s*'([^']*)'\s*\)`)
	lineMagicRE  = regexp.MustCompile(`get_ipython\(\)\.run_line_magic\(\s*'(\w+)'\s*,\s*'([^']*)'\s*\)`)
)

// unwrapMagic restores the original directive form of a converted magic
// line: get_ipython().system('pip install x') becomes "!pip install x",
// run_line_magic('pip', 'install x') becomes "%pip install x". Lines without
// a magic wrapper pass through unchanged.
func unwrapMagic(line string) string {
	if m := systemCallRE.FindStringSubmatch(line); m != nil {
		return "!" + m[1]
	}
	if m := lineMagicRE.FindStringSubmatch(line); m != nil {
		return "%" + m[1] + " " + m[2]
	}
	return line
}

// notebookDoc mirrors the subset of the .ipynb JSON format the fallback
// needs: a cells array with cell_type and source.
type notebookDoc struct {
	Cells []struct {
		CellType string          `json:"cell_type"`
		Source   json.RawMessage `json:"source"`
	} `json:"cells"`
}

// jsonStrategy parses the notebook document directly. Each code cell's
// source goes through the static analyzer, and raw lines are additionally
// matched against inline shell-install directives.
type jsonStrategy struct {
	analyzer *Analyzer
}

func (s *jsonStrategy) Name() string { return "json" }

func (s *jsonStrategy) Extract(ctx context.Context, path string, data []byte) (*Extraction, error) {
	var doc notebookDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("not a notebook document: %w", err)
	}

	ext := &Extraction{}
	if len(doc.Cells) == 0 {
		ext.Warnings = append(ext.Warnings, fmt.Sprintf("%s: notebook has no cells", path))
		return ext, nil
	}

	for _, cell := range doc.Cells {
		if cell.CellType != "code" {
			continue
		}
		src := cellSource(cell.Source)
		if strings.TrimSpace(src) == "" {
			continue
		}

		cellExt, err := s.analyzer.Analyze(ctx, path, []byte(blankMagics(src)), OriginNotebookCell)
		if err != nil {
			ext.Warnings = append(ext.Warnings, fmt.Sprintf("%s: cell skipped: %v", path, err))
		} else {
			ext.merge(cellExt)
		}

		for i, line := range strings.Split(src, "\n") {
			ext.Records = append(ext.Records, shellDirectivePackages(line, path, i+1)...)
		}
	}
	return ext, nil
}

// blankMagics replaces shell escapes and cell magics with empty lines so the
// structural parser does not trip over them. Line numbers are preserved; the
// directive lines themselves are scanned separately for install packages.
func blankMagics(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "!") || strings.HasPrefix(t, "%") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// cellSource handles both source encodings the format allows: a single
// string or a list of line strings, concatenated.
func cellSource(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "")
	}
	return ""
}

// installMarkers are the invocation prefixes recognized as inline
// shell-install directives inside notebook cells. Python interpreter
// invocations are accepted only through "-m pip".
var installMarkers = []string{"!pip", "%pip", "!pip3", "%pip3", "!uv", "%uv", "!python", "!python3"}

// shellDirectivePackages extracts package specifiers from an inline install
// directive like "!pip install -q requests beautifulsoup4". Tokens are taken
// after the install keyword; flag tokens (leading "-") are ignored.
func shellDirectivePackages(line, path string, lineNo int) []ImportRecord {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 {
		return nil
	}

	marker := false
	for _, m := range installMarkers {
		if fields[0] == m {
			marker = true
			break
		}
	}
	if !marker {
		return nil
	}

	// Find the install keyword. "!uv pip install x" and
	// "!python -m pip install x" nest one level deeper, and uv spells
	// the operation "add" as well as "pip install".
	uv := fields[0] == "!uv" || fields[0] == "%uv"
	start := -1
	for i, f := range fields[1:] {
		if f == "install" || (uv && f == "add") {
			start = i + 2
			break
		}
		if f != "pip" && f != "pip3" && f != "-m" {
			return nil
		}
	}
	if start < 0 || start >= len(fields) {
		return nil
	}

	var records []ImportRecord
	for _, tok := range fields[start:] {
		if strings.HasPrefix(tok, "-") {
			continue
		}
		records = append(records, ImportRecord{
			Raw:    tok,
			Path:   path,
			Line:   lineNo,
			Origin: OriginShellDirective,
		})
	}
	return records
}
