package requirements

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ParseStatus indicates whether a requirement line parsed cleanly.
type ParseStatus string

const (
	// StatusOK marks a line that parsed into a usable requirement.
	StatusOK ParseStatus = "ok"

	// StatusMalformed marks a line whose shape was not recognized. The raw
	// text is preserved for diagnostics and the line is excluded from
	// matching.
	StatusMalformed ParseStatus = "malformed"
)

// Requirement is one non-blank, non-comment line of a legacy requirements
// file.
type Requirement struct {
	Raw        string      // Original line text, trimmed
	Line       int         // 1-based line number in the source file
	Name       string      // Declared package name ("" for opaque URL refs and malformed lines)
	Extras     []string    // Extras from name[extra1,extra2] (nil if none)
	Constraint string      // Version specifier text, e.g. ">=2.0,<3" ("" if none)
	Markers    string      // Environment marker text after ";" ("" if none)
	Status     ParseStatus // StatusOK or StatusMalformed
}

// Result holds the outcome of reading a requirements file.
type Result struct {
	// Requirements lists every parsed line, malformed ones included.
	Requirements []Requirement

	// Warnings collects human-readable diagnostics for malformed and
	// ignored lines. Warnings never abort the read.
	Warnings []string

	// Found reports whether the file existed at all.
	Found bool

	// Path is the file the result was read from ("" when read from a
	// stream).
	Path string
}

// Names returns the declared names of all well-formed requirements, in file
// order. Opaque and malformed entries are excluded.
func (r *Result) Names() []string {
	var names []string
	for _, req := range r.Requirements {
		if req.Status == StatusOK && req.Name != "" {
			names = append(names, req.Name)
		}
	}
	return names
}

// nameRE matches "name", "name[extras]", optionally followed by a version
// specifier. PEP 508 names start alphanumeric and continue with [-_.A-Za-z0-9].
var nameRE = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(\[[^\]]*\])?\s*(.*)$`)

// ReadFile reads the requirements file at path.
//
// A missing file yields Result{Found: false} and a nil error; legacy files
// are optional. Any other read failure is returned as an error.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Result{Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read requirements %s: %w", path, err)
	}
	defer f.Close()

	res := Read(f)
	res.Path = path
	return res, nil
}

// Read parses requirement lines from r. It never fails: malformed lines are
// recorded with [StatusMalformed] and a warning, and reading continues.
func Read(r io.Reader) *Result {
	res := &Result{Found: true}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Inline comments: pip strips " #..." when preceded by whitespace.
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
			if line == "" {
				continue
			}
		}
		req := parseLine(line, lineNo)
		if req == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: pip option ignored: %s", lineNo, line))
			continue
		}
		if req.Status == StatusMalformed {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: unparseable requirement kept as diagnostic: %s", lineNo, line))
		}
		res.Requirements = append(res.Requirements, *req)
	}
	if err := scanner.Err(); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("read stopped early: %v", err))
	}
	return res
}

// parseLine parses one non-blank, non-comment line. Returns nil for pip
// option lines, which carry no package at all.
func parseLine(line string, lineNo int) *Requirement {
	req := &Requirement{Raw: line, Line: lineNo, Status: StatusOK}

	// Option lines: -r other.txt, -e ., --index-url, ...
	if strings.HasPrefix(line, "-") {
		return nil
	}

	// "name @ url" direct references keep their declared name.
	if name, rest, ok := strings.Cut(line, "@"); ok && !strings.Contains(name, "/") {
		req.Name = strings.TrimSpace(name)
		req.Constraint = "@" + strings.TrimSpace(rest)
		if req.Name == "" || !nameRE.MatchString(req.Name) {
			req.Name = ""
			req.Status = StatusMalformed
		}
		return req
	}

	// Bare URL / VCS references: accepted, canonicalized by the #egg=
	// fragment when present, otherwise opaque (excluded from matching).
	if strings.Contains(line, "://") {
		if i := strings.Index(line, "#egg="); i >= 0 {
			egg := line[i+len("#egg="):]
			if j := strings.IndexAny(egg, "&#"); j >= 0 {
				egg = egg[:j]
			}
			req.Name = strings.TrimSpace(egg)
		}
		return req
	}

	m := nameRE.FindStringSubmatch(line)
	if m == nil {
		req.Status = StatusMalformed
		return req
	}
	req.Name = m[1]
	if m[2] != "" {
		for _, e := range strings.Split(strings.Trim(m[2], "[]"), ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
	}

	rest := strings.TrimSpace(m[3])
	if spec, marker, ok := strings.Cut(rest, ";"); ok {
		req.Constraint = strings.TrimSpace(spec)
		req.Markers = strings.TrimSpace(marker)
	} else {
		req.Constraint = rest
	}
	if req.Constraint != "" && !validSpecifier(req.Constraint) {
		req.Status = StatusMalformed
		req.Name = ""
	}
	return req
}

// validSpecifier checks the basic syntactic shape of a version constraint.
// It accepts PEP 440 comparator clauses separated by commas; anything else
// marks the line malformed.
func validSpecifier(spec string) bool {
	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return false
		}
		ok := false
		for _, op := range []string{"===", "==", "!=", "<=", ">=", "~=", "<", ">"} {
			if strings.HasPrefix(clause, op) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
