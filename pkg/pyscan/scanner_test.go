package pyscan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/uvmigrate/pkg/observability"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestScanner(ignore []string) *Scanner {
	analyzer := NewAnalyzer()
	return NewScanner(analyzer, NewNotebookExtractor(analyzer, Converter{}), ignore, nil)
}

func TestScan_ClassifiesAndAggregates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.py":      "import flask\nimport requests\n",
		"lib/util.py": "import numpy\n",
		"analysis.ipynb": `{"cells": [
			{"cell_type": "code", "source": ["import pandas\n"]}
		]}`,
		"README.md": "import not_python\n",
	})

	res, err := newTestScanner(nil).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Modules)
	assert.Equal(t, 1, res.Notebooks)
	assert.ElementsMatch(t, []string{"flask", "requests", "numpy", "pandas"}, rawNames(res.Records))
}

func TestScan_IgnoresEnvironmentDirs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.py":                        "import flask\n",
		".venv/lib/thing.py":            "import vendored_dep\n",
		"__pycache__/cached.py":         "import stale_dep\n",
		"build/out.py":                  "import build_dep\n",
		"pkg.egg-info/something.py":     "import egg_dep\n",
		".ipynb_checkpoints/old.ipynb":  `{"cells": []}`,
		"notes/.ipynb_checkpoints/x.py": "import checkpoint_dep\n",
	})

	res, err := newTestScanner(nil).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"flask"}, rawNames(res.Records))
	assert.Equal(t, 1, res.Modules)
}

func TestScan_UserIgnorePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.py":       "import flask\n",
		"app_test.py":  "import pytest\n",
		"generated.py": "import generated_dep\n",
	})

	res, err := newTestScanner([]string{"*_test.py", "generated.py"}).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"flask"}, rawNames(res.Records))
}

func TestScan_BadFileDoesNotAbort(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.py":      "import requests\n",
		"broken.ipynb": "{definitely not json",
	})

	res, err := newTestScanner(nil).Scan(context.Background(), root)
	require.NoError(t, err, "a single bad file must not abort the scan")

	assert.Contains(t, rawNames(res.Records), "requests")
	assert.NotEmpty(t, res.Warnings)
}

func TestScan_MissingRootFails(t *testing.T) {
	_, err := newTestScanner(nil).Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScan_CancelledContext(t *testing.T) {
	root := writeTree(t, map[string]string{"app.py": "import flask\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(nil).Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

type fileHookRecorder struct {
	observability.NoopScanHooks
	started   []string
	completed []string
	imports   int
}

func (r *fileHookRecorder) OnFileStart(_ context.Context, path string) {
	r.started = append(r.started, filepath.Base(path))
}

func (r *fileHookRecorder) OnFileComplete(_ context.Context, path string, imports int, _ error) {
	r.completed = append(r.completed, filepath.Base(path))
	r.imports += imports
}

func TestScan_EmitsFileHooks(t *testing.T) {
	rec := &fileHookRecorder{}
	observability.SetScanHooks(rec)
	defer observability.Reset()

	root := writeTree(t, map[string]string{
		"app.py": "import flask\n",
		"analysis.ipynb": `{"cells": [
			{"cell_type": "code", "source": ["import pandas\n"]}
		]}`,
	})

	_, err := newTestScanner(nil).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"app.py", "analysis.ipynb"}, rec.started)
	assert.ElementsMatch(t, rec.started, rec.completed, "every started file must complete")
	assert.Equal(t, 2, rec.imports)
}
