package pyscan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) *Extraction {
	t.Helper()
	ext, err := NewAnalyzer().Analyze(context.Background(), "test.py", []byte(src), OriginModule)
	require.NoError(t, err)
	return ext
}

func rawNames(records []ImportRecord) []string {
	var names []string
	for _, r := range records {
		names = append(names, r.Raw)
	}
	return names
}

func TestAnalyze_PlainImports(t *testing.T) {
	ext := analyze(t, `import numpy
import pandas
import requests
`)
	require.Len(t, ext.Records, 3)
	assert.Equal(t, []string{"numpy", "pandas", "requests"}, rawNames(ext.Records))
	assert.Equal(t, 1, ext.Records[0].Line)
	assert.Equal(t, 3, ext.Records[2].Line)
	assert.Equal(t, OriginModule, ext.Records[0].Origin)
	assert.Empty(t, ext.Warnings)
}

func TestAnalyze_DottedPathsTruncated(t *testing.T) {
	ext := analyze(t, `import numpy.linalg
import matplotlib.pyplot as plt
from sklearn.model_selection import train_test_split
`)
	assert.Equal(t, []string{"numpy", "matplotlib", "sklearn"}, rawNames(ext.Records))
}

func TestAnalyze_MultipleNamesOneStatement(t *testing.T) {
	ext := analyze(t, "import os, sys, requests\n")
	assert.Equal(t, []string{"os", "sys", "requests"}, rawNames(ext.Records))
}

func TestAnalyze_FromImports(t *testing.T) {
	ext := analyze(t, `from flask import Flask
from collections import OrderedDict
`)
	assert.Equal(t, []string{"flask", "collections"}, rawNames(ext.Records))
}

func TestAnalyze_NestedImportsFound(t *testing.T) {
	ext := analyze(t, `def lazy():
    import torch
    return torch

if True:
    import scipy
`)
	assert.Equal(t, []string{"torch", "scipy"}, rawNames(ext.Records))
}

func TestAnalyze_WildcardImportUnresolved(t *testing.T) {
	ext := analyze(t, "from numpy import *\n")

	require.Len(t, ext.Records, 1)
	assert.True(t, ext.Records[0].Unresolved, "wildcard import must be unresolvable")
	assert.Empty(t, ext.Resolved(), "wildcard import must be excluded from the dependency set")
}

func TestAnalyze_RelativeImportsUnresolved(t *testing.T) {
	ext := analyze(t, `from . import helpers
from ..common import util
`)
	require.Len(t, ext.Records, 2)
	for _, r := range ext.Records {
		assert.True(t, r.Unresolved, "relative import %q must be unresolvable", r.Raw)
	}
	assert.Empty(t, ext.Resolved())
}

func TestAnalyze_SyntaxErrorsBestEffort(t *testing.T) {
	ext := analyze(t, `import requests

def broken(
    this is not valid python at all ???
`)
	assert.NotEmpty(t, ext.Warnings, "syntax errors must produce a warning")
	assert.Contains(t, rawNames(ext.Records), "requests", "imports from valid regions are still extracted")
}

func TestAnalyze_EmptySource(t *testing.T) {
	ext := analyze(t, "")
	assert.Empty(t, ext.Records)
	assert.Empty(t, ext.Warnings)
}

func TestAnalyze_LineNumbers(t *testing.T) {
	ext := analyze(t, "# comment\n\nimport flask\n")
	require.Len(t, ext.Records, 1)
	assert.Equal(t, 3, ext.Records[0].Line)
}
