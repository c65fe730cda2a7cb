package pyscan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonExtractor builds an extractor with no converter, so only the JSON
// fallback strategy runs.
func jsonExtractor() *NotebookExtractor {
	return NewNotebookExtractor(NewAnalyzer(), Converter{})
}

func TestNotebook_CodeCellsScanned(t *testing.T) {
	nb := `{
  "cells": [
    {"cell_type": "markdown", "source": ["# import fake_pkg in prose\n"]},
    {"cell_type": "code", "source": ["import pandas\n", "import numpy.linalg\n"]},
    {"cell_type": "code", "source": "from requests import get\n"}
  ]
}`
	ext := jsonExtractor().Extract(context.Background(), "nb.ipynb", []byte(nb))

	assert.ElementsMatch(t, []string{"pandas", "numpy", "requests"}, rawNames(ext.Records))
	for _, r := range ext.Records {
		assert.Equal(t, OriginNotebookCell, r.Origin)
		assert.Equal(t, "nb.ipynb", r.Path)
	}
}

func TestNotebook_ShellInstallDirectives(t *testing.T) {
	nb := `{
  "cells": [
    {"cell_type": "code", "source": ["!pip install -q requests beautifulsoup4\n", "import requests\n"]},
    {"cell_type": "code", "source": ["%pip install --upgrade scikit-learn\n"]}
  ]
}`
	ext := jsonExtractor().Extract(context.Background(), "nb.ipynb", []byte(nb))

	var shell []string
	for _, r := range ext.Records {
		if r.Origin == OriginShellDirective {
			shell = append(shell, r.Raw)
		}
	}
	assert.ElementsMatch(t, []string{"requests", "beautifulsoup4", "scikit-learn"}, shell,
		"flag tokens must be ignored, package tokens kept")
}

func TestNotebook_MalformedYieldsWarningNotError(t *testing.T) {
	ext := jsonExtractor().Extract(context.Background(), "broken.ipynb", []byte("{not json"))

	assert.Empty(t, ext.Records)
	require.Len(t, ext.Warnings, 1)
	assert.Contains(t, ext.Warnings[0], "broken.ipynb")
}

func TestNotebook_EmptyNotebookWarns(t *testing.T) {
	ext := jsonExtractor().Extract(context.Background(), "empty.ipynb", []byte(`{"cells": []}`))

	assert.Empty(t, ext.Records)
	require.Len(t, ext.Warnings, 1)
}

func TestNotebook_MagicLinesDoNotBreakParsing(t *testing.T) {
	nb := `{
  "cells": [
    {"cell_type": "code", "source": ["%matplotlib inline\n", "!ls -la\n", "import matplotlib.pyplot as plt\n"]}
  ]
}`
	ext := jsonExtractor().Extract(context.Background(), "nb.ipynb", []byte(nb))

	assert.Equal(t, []string{"matplotlib"}, rawNames(ext.Records))
	assert.Empty(t, ext.Warnings, "magic lines are blanked, not parsed as Python")
}

func TestShellDirectivePackages(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"!pip install requests", []string{"requests"}},
		{"%pip install -q -U flask gunicorn", []string{"flask", "gunicorn"}},
		{"!pip3 install numpy", []string{"numpy"}},
		{"!uv pip install httpx", []string{"httpx"}},
		{"%uv pip install polars", []string{"polars"}},
		{"!uv add duckdb", []string{"duckdb"}},
		{"!python -m pip install rich", []string{"rich"}},
		{"!python3 -m pip install rich", []string{"rich"}},
		{"!pip add requests", nil},
		{"!python script.py", nil},
		{"!pip install", nil},
		{"!pip freeze", nil},
		{"print('pip install nothing')", nil},
		{"!ls", nil},
	}
	for _, tt := range tests {
		got := rawNames(shellDirectivePackages(tt.line, "nb.ipynb", 1))
		assert.Equal(t, tt.want, got, "line %q", tt.line)
	}
}

func TestUnwrapMagic(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"get_ipython().system('pip install requests')", "!pip install requests"},
		{"get_ipython().run_line_magic('pip', 'install flask')", "%pip install flask"},
		{"import requests", "import requests"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unwrapMagic(tt.line))
	}
}

func TestNotebook_FirstStrategyWins(t *testing.T) {
	// A converter that is "available" but points at nothing fails, and the
	// extractor must fall through to the JSON strategy.
	conv := Converter{Available: true, Path: "/nonexistent/jupyter"}
	e := NewNotebookExtractor(NewAnalyzer(), conv)

	nb := `{"cells": [{"cell_type": "code", "source": ["import flask\n"]}]}`
	ext := e.Extract(context.Background(), "nb.ipynb", []byte(nb))

	assert.Equal(t, []string{"flask"}, rawNames(ext.Records))
}
