package installer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/matzehuels/uvmigrate/pkg/errors"
)

// DefaultTimeout bounds a single package-manager invocation. A stuck
// resolver or a dead index must not hang the whole migration.
const DefaultTimeout = 5 * time.Minute

// Runner is the collaborator that performs one "add" call against the
// project. It exists so the engine can be exercised without spawning
// processes.
type Runner interface {
	// Add installs the named packages into the project. A non-nil error of
	// type *AddError carries the subprocess diagnostics for classification.
	Add(ctx context.Context, packages []string) error
}

// AddError reports a failed add call together with everything the
// classifier needs.
type AddError struct {
	ExitCode int
	Stderr   string
	TimedOut bool
}

func (e *AddError) Error() string {
	if e.TimedOut {
		return "install call exceeded its time limit"
	}
	return fmt.Sprintf("install call exited with status %d", e.ExitCode)
}

// UVRunner shells out to the uv CLI.
type UVRunner struct {
	// Path is the uv executable. Defaults to "uv" resolved via PATH.
	Path string
	// Dir is the project root containing pyproject.toml.
	Dir string
	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewUVRunner returns a runner operating on the project at dir.
func NewUVRunner(dir string) *UVRunner {
	return &UVRunner{Path: "uv", Dir: dir, Timeout: DefaultTimeout}
}

// Add runs "uv add <packages...>" in the project directory.
func (r *UVRunner) Add(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	path := r.Path
	if path == "" {
		path = "uv"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string{"add"}, packages...)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return &AddError{ExitCode: -1, Stderr: stderr.String(), TimedOut: true}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return &AddError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return errors.Wrap(errors.ErrCodeInstallUnknown, err, "failed to invoke package manager")
}
