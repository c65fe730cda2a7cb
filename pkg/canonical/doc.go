// Package canonical maps raw Python import identifiers to canonical PyPI
// distribution names.
//
// Import names and distribution names frequently diverge: the module imported
// as "bs4" is published as "beautifulsoup4", "cv2" as "opencv-python", and so
// on. This package resolves that many-to-one naming problem with a static
// alias table and filters out standard-library modules, which map to no
// distribution at all.
//
// # Normalization
//
// All names are compared under PEP 503 normalization: case-folded, with runs
// of "-", "_" and "." collapsed to a single hyphen. Two names that normalize
// equal refer to the same distribution.
//
// # Usage
//
//	c := canonical.New()
//	name, ok := c.Canonicalize("bs4")
//	// name == "beautifulsoup4", ok == true
//
//	_, ok = c.Canonicalize("json")
//	// ok == false: stdlib module, not a dependency
//
// Canonicalization is a total, deterministic, idempotent function:
// re-applying it to its own output is a no-op.
//
// The alias table and the standard-library module set ship as embedded data
// files and can be replaced with [NewWithTable] when a project maintains its
// own mappings.
package canonical
