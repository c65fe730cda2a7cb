package reconcile

import (
	"sort"
	"strings"

	"github.com/matzehuels/uvmigrate/pkg/canonical"
	"github.com/matzehuels/uvmigrate/pkg/errors"
)

// Policy selects how legacy requirements and discovered imports merge.
// It is fixed at process start and immutable thereafter.
type Policy string

// The four migration policies.
const (
	// PolicyAuto keeps legacy entries that are actually imported and adds
	// everything newly discovered; unused legacy entries become warnings.
	PolicyAuto Policy = "auto"

	// PolicyAllRequirements migrates every legacy entry regardless of
	// whether it is currently imported.
	PolicyAllRequirements Policy = "all-requirements"

	// PolicyOnlyImported computes the same target as PolicyAuto but reports
	// unused legacy entries more verbosely.
	PolicyOnlyImported Policy = "only-imported"

	// PolicySkipRequirements ignores the legacy list entirely.
	PolicySkipRequirements Policy = "skip-requirements"
)

// Policies lists all valid policy values, for help text.
var Policies = []Policy{PolicyAuto, PolicyAllRequirements, PolicyOnlyImported, PolicySkipRequirements}

// ParsePolicy validates a policy string. An unknown value is an
// INVALID_POLICY configuration error naming the offending input.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range Policies {
		if p == known {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidPolicy,
		"unknown migration policy %q (valid: auto, all-requirements, only-imported, skip-requirements)", s)
}

// Result is the outcome of one reconciliation.
//
// All fields hold canonical names, deduplicated under normalization and
// sorted, so identical inputs always produce an identical Result.
type Result struct {
	// TargetSet is the full dependency set the manifest should end up with.
	TargetSet []string

	// NewlyDiscovered are imports with no corresponding legacy entry.
	NewlyDiscovered []string

	// RetainedLegacy are legacy entries carried into the target set.
	RetainedLegacy []string

	// UnusedLegacyWarnings are legacy entries absent from the target set.
	// Never silently dropped: empty only when the policy explicitly
	// discards or migrates them.
	UnusedLegacyWarnings []string
}

// Reconcile merges legacy and discovered canonical names under the policy.
//
// Inputs may contain duplicates or non-normalized spellings; the result is
// deduplicated under PEP 503 normalization, so the target set never holds
// two names that normalize equal. Reconcile is pure: it reads nothing and
// mutates nothing, which is what makes dry runs exact.
func Reconcile(legacy, discovered []string, policy Policy) *Result {
	l := newSet(legacy)
	d := newSet(discovered)

	res := &Result{}
	switch policy {
	case PolicySkipRequirements:
		res.TargetSet = d.sorted()
		res.NewlyDiscovered = d.sorted()

	case PolicyAllRequirements:
		res.TargetSet = union(l, d).sorted()
		res.NewlyDiscovered = diff(d, l).sorted()
		res.RetainedLegacy = l.sorted()

	case PolicyAuto, PolicyOnlyImported:
		res.TargetSet = d.sorted() // L∩D ∪ D\L == D
		res.NewlyDiscovered = diff(d, l).sorted()
		res.RetainedLegacy = intersect(l, d).sorted()
		res.UnusedLegacyWarnings = diff(l, d).sorted()
	}
	return res
}

// set is a normalization-keyed name set that remembers the first canonical
// spelling seen for each key.
type set map[string]string

func newSet(names []string) set {
	s := make(set, len(names))
	for _, n := range names {
		key := canonical.Normalize(n)
		if key == "" {
			continue
		}
		if _, ok := s[key]; !ok {
			s[key] = n
		}
	}
	return s
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func union(a, b set) set {
	out := make(set, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func intersect(a, b set) set {
	out := make(set)
	for k, v := range a {
		if _, ok := b[k]; ok {
			out[k] = v
		}
	}
	return out
}

func diff(a, b set) set {
	out := make(set)
	for k, v := range a {
		if _, ok := b[k]; !ok {
			out[k] = v
		}
	}
	return out
}
