// Package requirements reads legacy requirements.txt files.
//
// The reader is deliberately tolerant: a requirements file predates the
// project manifest and is frequently hand-edited, so malformed lines are
// retained as diagnostics instead of aborting the read. Blank lines and
// comments are skipped, pip option lines (-r, -e, --index-url, ...) are
// ignored with a warning, and URL/VCS references are accepted when they
// carry an explicit name ("name @ url" or a #egg= fragment) and treated as
// opaque otherwise.
//
// A missing file is not an error; legacy requirement lists are optional.
package requirements
