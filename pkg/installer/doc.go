// Package installer realizes a target dependency set against the project
// manifest by driving the external package manager (uv).
//
// Installation is a two-phase state machine. A batch attempt first requests
// every missing package in one "uv add" call; when the batch fails, the
// engine falls back to one add call per package so a single broken package
// cannot block its siblings. Every failure is classified into exactly one
// category by an ordered rule list (see [Classify]); the order is part of
// the contract because installer messages routinely satisfy more than one
// rule.
//
// Partial failure is a graceful-degradation contract, not an error: the run
// reports a per-package outcome table and the manifest ends up with exactly
// the union of confirmed successes. A failed package never reaches the
// manifest.
package installer
