// Package pyscan discovers imported package names in a Python project tree.
//
// The scanner walks a root directory, classifies candidate files into plain
// modules (.py) and notebook documents (.ipynb), and extracts raw import
// identifiers from both:
//
//   - Plain modules go through the static analyzer, which parses source with
//     tree-sitter and collects import statements anywhere in the file,
//     truncating dotted paths to their top-level component.
//   - Notebooks go through an ordered list of extraction strategies: first a
//     notebook-to-script converter (when the external tool is available),
//     then a direct JSON walk of code cells that also recognizes inline
//     "!pip install" / "%pip install" shell directives.
//
// Everything here is tolerant by contract. A file that cannot be read or
// parsed is skipped with a warning; the scan never aborts on a single bad
// file. Extraction is read-only.
package pyscan
