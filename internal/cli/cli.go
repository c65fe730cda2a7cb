// Package cli implements the uvmigrate command-line interface.
//
// This package provides commands for migrating a Python project to a
// uv-managed pyproject.toml: scanning sources and notebooks for imports,
// reconciling them against legacy requirements, and driving 'uv add'. It
// also manages the registry response cache used by --verify. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - migrate: Discover imports, reconcile with requirements.txt, install
//   - scan: Discovery-only; print import records and the canonical set
//   - cache: Manage the registry response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/uvmigrate/pkg/buildinfo"
	"github.com/matzehuels/uvmigrate/pkg/cache"
	"github.com/matzehuels/uvmigrate/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "uvmigrate"

// Environment variables selecting the shared Redis cache backend. When the
// address is unset the file cache under XDG is used.
const (
	envRedisAddr     = "UVMIGRATE_REDIS_ADDR"
	envRedisPassword = "UVMIGRATE_REDIS_PASSWORD"
	envRedisDB       = "UVMIGRATE_REDIS_DB"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "uvmigrate moves a Python project onto uv-managed dependencies",
		Long:         `uvmigrate scans a Python project for imports, maps them to PyPI distribution names, merges the result with a legacy requirements.txt, and installs the target set through 'uv add'.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(newCache(ctx, noCache), c.Logger)
}

// newCache selects the cache backend: null when disabled, Redis when the
// environment names a server, otherwise a file cache under XDG. Backend
// failures degrade to the null cache; verification then just refetches.
func newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		db, _ := strconv.Atoi(os.Getenv(envRedisDB))
		if rc, err := cache.NewRedisCache(ctx, addr, os.Getenv(envRedisPassword), db); err == nil {
			return rc
		}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/uvmigrate/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
