package pyscan

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// convertTimeout bounds a single notebook conversion.
const convertTimeout = 30 * time.Second

// Converter is the optional notebook-to-script collaborator, probed once at
// startup and passed by reference to consumers. The zero value means
// unavailable; code that holds a Converter checks Available instead of
// re-probing the environment.
type Converter struct {
	Available bool
	Path      string // Resolved executable path (e.g. /usr/bin/jupyter)
	Version   string // Reported nbconvert version, for diagnostics
}

// ProbeConverter looks for a usable "jupyter nbconvert" once. The probe is
// intentionally cheap and silent: an absent or broken tool simply yields an
// unavailable capability and the notebook extractor falls back to its JSON
// strategy.
func ProbeConverter(ctx context.Context) Converter {
	path, err := exec.LookPath("jupyter")
	if err != nil {
		return Converter{}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "nbconvert", "--version").Output()
	if err != nil {
		return Converter{}
	}
	return Converter{
		Available: true,
		Path:      path,
		Version:   strings.TrimSpace(string(out)),
	}
}

// Convert flattens a notebook into script text via nbconvert, preserving
// code cells in document order. Returns the script source or an error when
// the tool misbehaves; the caller treats any error as a strategy failure and
// moves on to the fallback.
func (c Converter) Convert(ctx context.Context, notebookPath string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Path, "nbconvert", "--to", "script", "--stdout", notebookPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, &ConvertError{Path: notebookPath, Detail: msg}
		}
		return nil, &ConvertError{Path: notebookPath, Detail: err.Error()}
	}
	return stdout.Bytes(), nil
}

// ConvertError reports a failed notebook conversion.
type ConvertError struct {
	Path   string
	Detail string
}

func (e *ConvertError) Error() string {
	return "nbconvert failed for " + e.Path + ": " + e.Detail
}
