package pyproject

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/uvmigrate/pkg/canonical"
	"github.com/matzehuels/uvmigrate/pkg/errors"
)

// DefaultFile is the manifest filename uv manages.
const DefaultFile = "pyproject.toml"

// document mirrors the subset of pyproject.toml the engine needs.
type document struct {
	Project struct {
		Name         string   `toml:"name"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// State is the project's declared dependency set.
//
// State is read once per run and mutated only through [State.Commit] with
// names the installer confirmed. It is not safe for concurrent use; the
// pipeline is strictly sequential.
type State struct {
	path    string
	project string
	deps    map[string]string // normalized name -> raw specifier as declared
}

// Load reads the manifest at path and returns its dependency state.
//
// A missing, unreadable or structurally broken manifest is returned as an
// INVALID_MANIFEST configuration error naming the offending file; the caller
// must halt before any mutation.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err,
			"cannot read project manifest %s (run 'uv init' first?)", path)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err,
			"project manifest %s is not valid TOML", path)
	}
	if doc.Project.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest,
			"project manifest %s has no [project] name; is it initialized?", path)
	}

	s := &State{
		path:    path,
		project: doc.Project.Name,
		deps:    make(map[string]string, len(doc.Project.Dependencies)),
	}
	for _, spec := range doc.Project.Dependencies {
		name := canonical.Normalize(canonical.Strip(spec))
		if name == "" {
			continue
		}
		if _, dup := s.deps[name]; !dup {
			s.deps[name] = spec
		}
	}
	return s, nil
}

// Path returns the manifest file the state was loaded from.
func (s *State) Path() string { return s.path }

// Project returns the declared project name.
func (s *State) Project() string { return s.project }

// Contains reports whether the manifest already declares the package. The
// name is normalized before lookup, so any spelling of the same
// distribution matches.
func (s *State) Contains(name string) bool {
	_, ok := s.deps[canonical.Normalize(canonical.Strip(name))]
	return ok
}

// Commit records confirmed-successful additions. Only the installer calls
// this, and only with packages whose add call succeeded; failed packages
// must never reach the state.
func (s *State) Commit(names ...string) {
	for _, n := range names {
		key := canonical.Normalize(canonical.Strip(n))
		if key == "" {
			continue
		}
		if _, ok := s.deps[key]; !ok {
			s.deps[key] = n
		}
	}
}

// Names returns the normalized declared dependency names, sorted.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.deps))
	for n := range s.deps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Missing filters names down to those the manifest does not yet declare,
// preserving input order and dropping normalization-equal duplicates.
func (s *State) Missing(names []string) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		key := canonical.Normalize(canonical.Strip(n))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, declared := s.deps[key]; !declared {
			out = append(out, n)
		}
	}
	return out
}
