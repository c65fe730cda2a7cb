package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func writeProjectFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeProjectFile(t, filepath.Join(root, "pyproject.toml"),
		"[project]\nname = \"demo\"\ndependencies = []\n")
	writeProjectFile(t, filepath.Join(root, "app.py"),
		"import os\nimport requests\nfrom bs4 import BeautifulSoup\n")
	writeProjectFile(t, filepath.Join(root, "requirements.txt"),
		"requests\nleft-pad-py\n")
	return root
}

func TestRootCommandStructure(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := map[string]bool{
		"migrate":    false,
		"scan":       false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestMigrateDryRunJSON(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := fixtureProject(t)

	c := New(io.Discard, log.InfoLevel)
	cmd := c.RootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"migrate", root, "--dry-run", "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("migrate --dry-run failed: %v", err)
	}

	var report struct {
		Policy     string   `json:"policy"`
		DryRun     bool     `json:"dry_run"`
		Discovered []string `json:"discovered"`
		Planned    []string `json:"planned"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, out.String())
	}
	if !report.DryRun {
		t.Error("report should be marked dry_run")
	}
	if report.Policy != "auto" {
		t.Errorf("default policy = %q, want auto", report.Policy)
	}

	wantDiscovered := []string{"beautifulsoup4", "requests"}
	if len(report.Discovered) != 2 ||
		report.Discovered[0] != wantDiscovered[0] || report.Discovered[1] != wantDiscovered[1] {
		t.Errorf("Discovered = %v, want %v", report.Discovered, wantDiscovered)
	}
	if len(report.Planned) != 2 {
		t.Errorf("Planned = %v, want both discovered packages", report.Planned)
	}
}

func TestMigrateRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := fixtureProject(t)

	c := New(io.Discard, log.InfoLevel)
	cmd := c.RootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"migrate", root, "--dry-run", "--policy", "bogus"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestScanJSON(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := fixtureProject(t)

	c := New(io.Discard, log.InfoLevel)
	cmd := c.RootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"scan", root, "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var result struct {
		Discovered []string `json:"discovered"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("scan output is not valid JSON: %v\n%s", err, out.String())
	}
	if len(result.Discovered) != 2 {
		t.Errorf("Discovered = %v, want beautifulsoup4 and requests", result.Discovered)
	}
}
