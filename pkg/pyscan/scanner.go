package pyscan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uvmigrate/pkg/observability"
)

// defaultIgnoreDirs are directory names never descended into. They hold
// vendored, generated or environment files whose imports are not the
// project's own.
var defaultIgnoreDirs = []string{
	".git",
	".hg",
	".svn",
	".venv",
	"venv",
	".tox",
	".nox",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	".ruff_cache",
	".ipynb_checkpoints",
	"node_modules",
	"build",
	"dist",
	".eggs",
	"site-packages",
}

// Scanner walks a project tree and aggregates raw import records from plain
// modules and notebooks. The traversal is read-only.
type Scanner struct {
	analyzer  *Analyzer
	notebooks *NotebookExtractor
	ignore    []string // extra ignore patterns, matched against base names
	logger    *log.Logger
}

// NewScanner creates a Scanner. Extra ignore patterns use filepath.Match
// syntax against base names and apply to files and directories alike. The
// logger may be nil.
func NewScanner(analyzer *Analyzer, notebooks *NotebookExtractor, ignore []string, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{analyzer: analyzer, notebooks: notebooks, ignore: ignore, logger: logger}
}

// Result aggregates one scan pass.
type Result struct {
	Extraction

	Modules   int // Plain .py files scanned
	Notebooks int // Notebook documents scanned
}

// Scan walks root and extracts import records from every candidate file.
//
// A single unreadable or unparseable file is skipped with a warning; the
// scan aborts only when the root itself cannot be walked or the context is
// cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	res := &Result{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if path == root {
				return err
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", path, err))
			return nil
		}

		base := d.Name()
		if d.IsDir() {
			if path != root && s.ignored(base, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.ignored(base, false) {
			return nil
		}

		switch strings.ToLower(filepath.Ext(base)) {
		case ".py":
			s.scanModule(ctx, path, res)
		case ".ipynb":
			if s.notebooks != nil {
				s.scanNotebook(ctx, path, res)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	s.logger.Debug("scan complete", "modules", res.Modules, "notebooks", res.Notebooks,
		"records", len(res.Records), "warnings", len(res.Warnings))
	return res, nil
}

func (s *Scanner) scanModule(ctx context.Context, path string, res *Result) {
	hooks := observability.Scan()
	hooks.OnFileStart(ctx, path)

	src, err := os.ReadFile(path)
	if err != nil {
		hooks.OnFileComplete(ctx, path, 0, err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: unreadable, skipped: %v", path, err))
		return
	}
	res.Modules++

	ext, err := s.analyzer.Analyze(ctx, path, src, OriginModule)
	if err != nil {
		hooks.OnFileComplete(ctx, path, 0, err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: parse failed, skipped: %v", path, err))
		return
	}
	res.merge(ext)
	hooks.OnFileComplete(ctx, path, len(ext.Records), nil)
}

func (s *Scanner) scanNotebook(ctx context.Context, path string, res *Result) {
	hooks := observability.Scan()
	hooks.OnFileStart(ctx, path)

	data, err := os.ReadFile(path)
	if err != nil {
		hooks.OnFileComplete(ctx, path, 0, err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: unreadable, skipped: %v", path, err))
		return
	}
	res.Notebooks++

	ext := s.notebooks.Extract(ctx, path, data)
	res.merge(ext)
	hooks.OnFileComplete(ctx, path, len(ext.Records), nil)
}

// ignored reports whether a base name matches the builtin directory ignores
// or a user-supplied pattern.
func (s *Scanner) ignored(base string, isDir bool) bool {
	if isDir {
		for _, d := range defaultIgnoreDirs {
			if base == d {
				return true
			}
		}
		if strings.HasSuffix(base, ".egg-info") {
			return true
		}
	}
	for _, pattern := range s.ignore {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
