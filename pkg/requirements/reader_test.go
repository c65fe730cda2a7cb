package requirements

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead_BasicLines(t *testing.T) {
	input := `# production deps
pandas==2.0.0

numpy>=1.20.0
requests[socks,security]>=2.28  # inline comment
uvloop; sys_platform != "win32"
flask
`
	res := Read(strings.NewReader(input))

	if len(res.Requirements) != 5 {
		t.Fatalf("got %d requirements, want 5", len(res.Requirements))
	}

	tests := []struct {
		name       string
		constraint string
		markers    string
		extras     int
	}{
		{"pandas", "==2.0.0", "", 0},
		{"numpy", ">=1.20.0", "", 0},
		{"requests", ">=2.28", "", 2},
		{"uvloop", "", `sys_platform != "win32"`, 0},
		{"flask", "", "", 0},
	}
	for i, tt := range tests {
		req := res.Requirements[i]
		if req.Status != StatusOK {
			t.Errorf("%s: status = %s, want ok", tt.name, req.Status)
		}
		if req.Name != tt.name {
			t.Errorf("requirement %d: name = %q, want %q", i, req.Name, tt.name)
		}
		if req.Constraint != tt.constraint {
			t.Errorf("%s: constraint = %q, want %q", tt.name, req.Constraint, tt.constraint)
		}
		if req.Markers != tt.markers {
			t.Errorf("%s: markers = %q, want %q", tt.name, req.Markers, tt.markers)
		}
		if len(req.Extras) != tt.extras {
			t.Errorf("%s: extras = %v, want %d entries", tt.name, req.Extras, tt.extras)
		}
		if req.Line == 0 {
			t.Errorf("%s: missing line number", tt.name)
		}
	}
}

func TestRead_MalformedLineKeptWithWarning(t *testing.T) {
	input := "requests\n===broken===\nflask==2.0\n"
	res := Read(strings.NewReader(input))

	if len(res.Requirements) != 3 {
		t.Fatalf("got %d requirements, want 3 (malformed retained)", len(res.Requirements))
	}
	bad := res.Requirements[1]
	if bad.Status != StatusMalformed {
		t.Errorf("status = %s, want malformed", bad.Status)
	}
	if bad.Raw != "===broken===" {
		t.Errorf("raw = %q, want original text", bad.Raw)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", res.Warnings)
	}
	// Malformed lines never enter the matchable name set.
	for _, n := range res.Names() {
		if strings.Contains(n, "broken") {
			t.Errorf("malformed line leaked into Names(): %v", res.Names())
		}
	}
}

func TestRead_BadSpecifierIsMalformed(t *testing.T) {
	res := Read(strings.NewReader("flask ?? 2.0\n"))
	if len(res.Requirements) != 1 || res.Requirements[0].Status != StatusMalformed {
		t.Fatalf("expected single malformed requirement, got %+v", res.Requirements)
	}
}

func TestRead_OptionLinesIgnored(t *testing.T) {
	input := "-r base.txt\n--index-url https://example.com/simple\n-e .\nrequests\n"
	res := Read(strings.NewReader(input))

	if len(res.Requirements) != 1 || res.Requirements[0].Name != "requests" {
		t.Fatalf("got %+v, want only requests", res.Requirements)
	}
	if len(res.Warnings) != 3 {
		t.Errorf("warnings = %v, want three option warnings", res.Warnings)
	}
}

func TestRead_URLReferences(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
	}{
		{"pip @ https://github.com/pypa/pip/archive/22.0.2.zip", "pip"},
		{"git+https://github.com/psf/requests.git#egg=requests", "requests"},
		{"https://example.com/wheels/pkg-1.0-py3-none-any.whl", ""}, // opaque: no declared name
	}
	for _, tt := range tests {
		res := Read(strings.NewReader(tt.line + "\n"))
		if len(res.Requirements) != 1 {
			t.Fatalf("%q: got %d requirements, want 1", tt.line, len(res.Requirements))
		}
		req := res.Requirements[0]
		if req.Status != StatusOK {
			t.Errorf("%q: status = %s, want ok", tt.line, req.Status)
		}
		if req.Name != tt.wantName {
			t.Errorf("%q: name = %q, want %q", tt.line, req.Name, tt.wantName)
		}
	}
}

func TestReadFile_MissingIsNotAnError(t *testing.T) {
	res, err := ReadFile(filepath.Join(t.TempDir(), "requirements.txt"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if res.Found {
		t.Error("Found = true for missing file")
	}
}

func TestReadFile_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("flask\nunused-pkg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !res.Found {
		t.Error("Found = false for existing file")
	}
	names := res.Names()
	if len(names) != 2 || names[0] != "flask" || names[1] != "unused-pkg" {
		t.Errorf("Names() = %v, want [flask unused-pkg]", names)
	}
}
