package exercises

import (
	"strings"
	"testing"
)

// TestClassifyEmpty verifies that empty and whitespace-only names
// resolve to the default entry.
func TestClassifyEmpty(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		if got := Classify(name); got != Default {
			t.Errorf("Classify(%q) = %+v, want default", name, got)
		}
	}
}

// TestClassifyExactMatch verifies that a verbatim key resolves to its
// own entry regardless of case and surrounding whitespace.
func TestClassifyExactMatch(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"squats", "squats"},
		{"Squats", "squats"},
		{"  PLANK  ", "plank"},
		{"Mountain Climbers", "mountain climbers"},
		{"pull-ups or rows", "pull-ups or rows"},
	}
	for _, tt := range tests {
		if got := Classify(tt.name); got.Key != tt.key {
			t.Errorf("Classify(%q).Key = %q, want %q", tt.name, got.Key, tt.key)
		}
	}
}

// TestClassifyExactBeatsContainment verifies that a verbatim key
// resolves via the exact pass, not the ordered containment scan.
func TestClassifyExactBeatsContainment(t *testing.T) {
	for _, entry := range Taxonomy() {
		if got := Classify(entry.Key); got.Key != entry.Key {
			t.Errorf("Classify(%q).Key = %q, want the exact entry", entry.Key, got.Key)
		}
	}
}

// TestClassifyFirstDeclaredWins verifies the scan is in declaration
// order: a name matching several keys resolves to the first one.
func TestClassifyFirstDeclaredWins(t *testing.T) {
	got := Classify("squats and push-ups")
	if got.Key != "squats" {
		t.Errorf("Classify(%q).Key = %q, want %q", "squats and push-ups", got.Key, "squats")
	}
}

// TestClassifyBidirectionalContainment verifies both directions of the
// substring rule: the input containing a key, and a key containing the
// input.
func TestClassifyBidirectionalContainment(t *testing.T) {
	// Input contains the key.
	if got := Classify("weighted squats 3x5"); got.Key != "squats" {
		t.Errorf("Classify(%q).Key = %q, want squats", "weighted squats 3x5", got.Key)
	}
	// Key contains the input.
	if got := Classify("mountain"); got.Key != "mountain climbers" {
		t.Errorf("Classify(%q).Key = %q, want mountain climbers", "mountain", got.Key)
	}
}

// TestClassifyUnknown verifies that names matching nothing resolve to
// the default entry.
func TestClassifyUnknown(t *testing.T) {
	if got := Classify("swimming"); got != Default {
		t.Errorf("Classify(%q) = %+v, want default", "swimming", got)
	}
}

// TestClassifyNormalizationIdempotent verifies that classification is
// stable under re-normalization of the input.
func TestClassifyNormalizationIdempotent(t *testing.T) {
	inputs := []string{"  Squats ", "PUSH-UPS", "Romanian Deadlifts", "swimming", ""}
	for _, in := range inputs {
		normalized := strings.ToLower(strings.TrimSpace(in))
		if a, b := Classify(in), Classify(normalized); a != b {
			t.Errorf("Classify(%q) = %+v, but Classify(%q) = %+v", in, a, normalized, b)
		}
	}
}

// TestTaxonomyOrderStable pins the declaration order, since it is part
// of the classification contract.
func TestTaxonomyOrderStable(t *testing.T) {
	want := []string{
		"squats", "push-ups", "plank", "lunges", "burpees",
		"mountain climbers", "romanian deadlifts", "pull-ups or rows",
		"dips", "jumping jacks",
	}
	got := Taxonomy()
	if len(got) != len(want) {
		t.Fatalf("taxonomy has %d entries, want %d", len(got), len(want))
	}
	for i, key := range want {
		if got[i].Key != key {
			t.Errorf("taxonomy[%d].Key = %q, want %q", i, got[i].Key, key)
		}
	}
}
