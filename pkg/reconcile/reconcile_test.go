package reconcile

import (
	"reflect"
	"testing"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{"auto", PolicyAuto, false},
		{"all-requirements", PolicyAllRequirements, false},
		{"only-imported", PolicyOnlyImported, false},
		{"skip-requirements", PolicySkipRequirements, false},
		{"  AUTO ", PolicyAuto, false},
		{"", "", true},
		{"everything", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestReconcile_AutoKeepsImportedAndAddsDiscovered(t *testing.T) {
	// Legacy pandas==2.0.0 and numpy>=1.20.0, already canonicalized to
	// bare names upstream.
	legacy := []string{"pandas", "numpy"}
	discovered := []string{"pandas", "numpy", "requests"}

	res := Reconcile(legacy, discovered, PolicyAuto)

	wantTarget := []string{"numpy", "pandas", "requests"}
	if !reflect.DeepEqual(res.TargetSet, wantTarget) {
		t.Errorf("TargetSet = %v, want %v", res.TargetSet, wantTarget)
	}
	if len(res.UnusedLegacyWarnings) != 0 {
		t.Errorf("UnusedLegacyWarnings = %v, want empty", res.UnusedLegacyWarnings)
	}
	if !reflect.DeepEqual(res.NewlyDiscovered, []string{"requests"}) {
		t.Errorf("NewlyDiscovered = %v, want [requests]", res.NewlyDiscovered)
	}
	if !reflect.DeepEqual(res.RetainedLegacy, []string{"numpy", "pandas"}) {
		t.Errorf("RetainedLegacy = %v, want [numpy pandas]", res.RetainedLegacy)
	}
}

func TestReconcile_AutoWarnsOnUnusedLegacy(t *testing.T) {
	res := Reconcile([]string{"flask", "unused-pkg"}, []string{"flask"}, PolicyAuto)

	if !reflect.DeepEqual(res.TargetSet, []string{"flask"}) {
		t.Errorf("TargetSet = %v, want [flask]", res.TargetSet)
	}
	if !reflect.DeepEqual(res.UnusedLegacyWarnings, []string{"unused-pkg"}) {
		t.Errorf("UnusedLegacyWarnings = %v, want [unused-pkg]", res.UnusedLegacyWarnings)
	}
}

func TestReconcile_AllRequirementsMigratesUnused(t *testing.T) {
	res := Reconcile([]string{"flask", "unused-pkg"}, []string{"flask"}, PolicyAllRequirements)

	if !reflect.DeepEqual(res.TargetSet, []string{"flask", "unused-pkg"}) {
		t.Errorf("TargetSet = %v, want [flask unused-pkg]", res.TargetSet)
	}
	if len(res.UnusedLegacyWarnings) != 0 {
		t.Errorf("UnusedLegacyWarnings = %v, want empty", res.UnusedLegacyWarnings)
	}
}

func TestReconcile_SkipRequirementsIgnoresLegacy(t *testing.T) {
	res := Reconcile([]string{"flask", "unused-pkg"}, []string{"requests"}, PolicySkipRequirements)

	if !reflect.DeepEqual(res.TargetSet, []string{"requests"}) {
		t.Errorf("TargetSet = %v, want [requests]", res.TargetSet)
	}
	if len(res.UnusedLegacyWarnings) != 0 {
		t.Errorf("UnusedLegacyWarnings = %v, want empty (legacy ignored entirely)", res.UnusedLegacyWarnings)
	}
	if len(res.RetainedLegacy) != 0 {
		t.Errorf("RetainedLegacy = %v, want empty", res.RetainedLegacy)
	}
}

func TestReconcile_OnlyImportedMatchesAutoTarget(t *testing.T) {
	legacy := []string{"flask", "unused-pkg"}
	discovered := []string{"flask", "requests"}

	auto := Reconcile(legacy, discovered, PolicyAuto)
	only := Reconcile(legacy, discovered, PolicyOnlyImported)

	if !reflect.DeepEqual(auto.TargetSet, only.TargetSet) {
		t.Errorf("auto target %v != only-imported target %v", auto.TargetSet, only.TargetSet)
	}
	if !reflect.DeepEqual(auto.UnusedLegacyWarnings, only.UnusedLegacyWarnings) {
		t.Errorf("auto warnings %v != only-imported warnings %v",
			auto.UnusedLegacyWarnings, only.UnusedLegacyWarnings)
	}
}

func TestReconcile_NormalizationDeduplicates(t *testing.T) {
	res := Reconcile([]string{"python_dateutil"}, []string{"python-dateutil", "Python.Dateutil"}, PolicyAuto)

	if len(res.TargetSet) != 1 {
		t.Fatalf("TargetSet = %v, want a single entry for normalization-equal names", res.TargetSet)
	}
	if len(res.UnusedLegacyWarnings) != 0 {
		t.Errorf("UnusedLegacyWarnings = %v, want empty (legacy matches under normalization)", res.UnusedLegacyWarnings)
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	legacy := []string{"b", "a", "c", "unused"}
	discovered := []string{"c", "a", "b", "new1", "new2"}

	first := Reconcile(legacy, discovered, PolicyAuto)
	for i := 0; i < 10; i++ {
		again := Reconcile(legacy, discovered, PolicyAuto)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Reconcile not deterministic: %+v != %+v", first, again)
		}
	}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	res := Reconcile(nil, nil, PolicyAuto)
	if len(res.TargetSet) != 0 || len(res.UnusedLegacyWarnings) != 0 {
		t.Errorf("empty inputs produced %+v, want empty result", res)
	}
}
