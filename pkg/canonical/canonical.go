package canonical

import (
	"sort"
	"strings"
)

// Normalize applies PEP 503 name normalization: the name is lowercased and
// runs of "-", "_" and "." are collapsed to a single hyphen.
//
// Two package names that normalize equal identify the same distribution.
// Normalize is idempotent.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '-' || r == '_' || r == '.' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

// Strip removes everything after the bare name in a requirement specifier:
// extras brackets, version constraints, environment markers and URL
// references. "requests[socks]>=2.0; python_version < '3.12'" becomes
// "requests".
func Strip(spec string) string {
	s := strings.TrimSpace(spec)
	if i := strings.IndexAny(s, "[=<>!~;@ \t"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Canonicalizer resolves raw import identifiers to canonical distribution
// names and filters standard-library modules.
//
// The zero value is not usable; construct instances with [New] or
// [NewWithTable]. A Canonicalizer is safe for concurrent use after
// construction (all state is read-only).
type Canonicalizer struct {
	aliases map[string]string   // normalized import name -> normalized distribution name
	stdlib  map[string]struct{} // normalized stdlib/builtin module names
}

// New creates a Canonicalizer backed by the embedded alias table and the
// embedded Python standard-library module set.
func New() *Canonicalizer {
	return NewWithTable(defaultAliases(), defaultStdlib())
}

// NewWithTable creates a Canonicalizer from an explicit alias table and
// stdlib module list. Keys and values are normalized on construction, so
// callers may pass names in any case or separator style.
//
// When two alias keys normalize equal, the entry whose original key sorts
// first (byte order) wins. Keys are visited in sorted order, so construction
// is deterministic regardless of map iteration order.
func NewWithTable(aliases map[string]string, stdlib []string) *Canonicalizer {
	c := &Canonicalizer{
		aliases: make(map[string]string, len(aliases)),
		stdlib:  make(map[string]struct{}, len(stdlib)),
	}
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		nk := Normalize(k)
		if _, exists := c.aliases[nk]; !exists {
			c.aliases[nk] = Normalize(aliases[k])
		}
	}
	for _, m := range stdlib {
		c.stdlib[Normalize(m)] = struct{}{}
	}
	return c
}

// Canonicalize maps a raw import identifier (or requirement name) to its
// canonical distribution name.
//
// The raw name may carry extras, version specifiers or environment markers;
// these are stripped first. Returns ok=false when the name maps to no
// dependency at all: empty input, standard-library and builtin modules.
//
// Canonicalize is idempotent: Canonicalize(Canonicalize(x)) == Canonicalize(x).
func (c *Canonicalizer) Canonicalize(raw string) (string, bool) {
	name := Normalize(Strip(raw))
	if name == "" {
		return "", false
	}
	if _, ok := c.stdlib[name]; ok {
		return "", false
	}
	if dist, ok := c.aliases[name]; ok {
		return dist, true
	}
	return name, true
}

// IsStdlib reports whether the raw name is a Python standard-library or
// builtin module (after stripping and normalization).
func (c *Canonicalizer) IsStdlib(raw string) bool {
	_, ok := c.stdlib[Normalize(Strip(raw))]
	return ok
}
