package pyscan

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Analyzer extracts raw import identifiers from Python source text using a
// tree-sitter structural parse.
//
// Parsing is best-effort: tree-sitter recovers around syntax errors, so a
// file with a broken region still yields the imports from its valid parts,
// with a warning. A file whose parse is wholly broken yields zero records
// plus the warning. An Analyzer is not safe for concurrent use; the scan is
// strictly sequential.
type Analyzer struct {
	parser *sitter.Parser
}

// NewAnalyzer creates an Analyzer with a Python grammar.
func NewAnalyzer() *Analyzer {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Analyzer{parser: p}
}

// Analyze parses src and returns the import records found, in source order.
//
// Dotted module paths are truncated to their first component ("numpy" for
// "import numpy.linalg"). Wildcard imports ("from pkg import *") and
// relative imports ("from . import x") are recorded as unresolved: they
// cannot be mapped to a distribution name and are excluded from the
// dependency set.
//
// The only error returned is a failed parse invocation itself (e.g. context
// cancellation); malformed source is reported through Extraction.Warnings.
func (a *Analyzer) Analyze(ctx context.Context, path string, src []byte, origin Origin) (*Extraction, error) {
	tree, err := a.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	ext := &Extraction{}
	root := tree.RootNode()
	if root.HasError() {
		ext.Warnings = append(ext.Warnings, fmt.Sprintf("%s: syntax errors; imports extracted best-effort", path))
	}

	a.collect(root, src, path, origin, ext)
	return ext, nil
}

// collect walks the tree depth-first. Import statements are collected from
// any nesting level: imports inside functions and conditionals still name
// real dependencies.
func (a *Analyzer) collect(n *sitter.Node, src []byte, path string, origin Origin, ext *Extraction) {
	switch n.Type() {
	case "import_statement":
		a.collectImport(n, src, path, origin, ext)
	case "import_from_statement":
		a.collectFromImport(n, src, path, origin, ext)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.collect(n.NamedChild(i), src, path, origin, ext)
	}
}

// collectImport handles "import a.b.c, d as e".
func (a *Analyzer) collectImport(n *sitter.Node, src []byte, path string, origin Origin, ext *Extraction) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		name := child
		if child.Type() == "aliased_import" {
			name = child.ChildByFieldName("name")
		}
		if name == nil || name.Type() != "dotted_name" {
			continue
		}
		ext.Records = append(ext.Records, record(name, src, path, origin))
	}
}

// collectFromImport handles "from m import x", "from m import *" and
// "from . import x".
func (a *Analyzer) collectFromImport(n *sitter.Node, src []byte, path string, origin Origin, ext *Extraction) {
	module := n.ChildByFieldName("module_name")
	if module == nil {
		return
	}

	rec := record(module, src, path, origin)
	if module.Type() == "relative_import" {
		// Project-local: no package name to map.
		rec.Unresolved = true
	} else if hasWildcard(n) {
		rec.Unresolved = true
	}
	ext.Records = append(ext.Records, rec)
}

func hasWildcard(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "wildcard_import" {
			return true
		}
	}
	return false
}

// record builds an ImportRecord from a module-name node, truncating dotted
// paths to their top-level component.
func record(name *sitter.Node, src []byte, path string, origin Origin) ImportRecord {
	text := name.Content(src)
	if i := strings.IndexByte(text, '.'); i > 0 {
		text = text[:i]
	}
	return ImportRecord{
		Raw:    strings.TrimSpace(text),
		Path:   path,
		Line:   int(name.StartPoint().Row) + 1,
		Origin: origin,
	}
}
