// Package reconcile merges legacy requirement names with discovered import
// names under a migration policy.
//
// Inputs are canonical distribution names (see package canonical); the
// reconciler is a pure set computation and is deterministic for identical
// inputs. Four policies are supported:
//
//	skip-requirements  target = D            no unused-legacy warnings
//	only-imported      target = L∩D ∪ D\L    warnings = L\D
//	auto               target = L∩D ∪ D\L    warnings = L\D
//	all-requirements   target = L ∪ D        no unused-legacy warnings
//
// where L is the legacy set and D the discovered set. auto and only-imported
// produce the same target; they differ only in how verbosely the CLI reports
// the unused-legacy entries. A legacy requirement missing from the target is
// never silently dropped: it appears in the warnings unless the policy
// discards legacy entirely (skip-requirements) or migrates everything
// (all-requirements).
package reconcile
