// Package pyproject reads the project manifest (pyproject.toml) and tracks
// its declared dependency set for the duration of a run.
//
// The manifest is read exactly once at start. uvmigrate never edits manifest
// text itself: on-disk mutation happens through the external package manager
// ("uv add"), and the in-memory [State] is advanced only for additions the
// installer confirmed as successful. A package whose installation failed
// never enters the state.
//
// An unreadable or uninitialized manifest is a configuration error and halts
// the run before any mutation; everything downstream depends on knowing what
// the project already declares.
package pyproject
