// Package exercises resolves free-text exercise names to taxonomy
// entries. Classification is deterministic: exact key match first, then
// a scan of the table in declaration order, so the same input always
// lands on the same entry.
package exercises

import "strings"

// Classification is the taxonomy entry an exercise name resolves to.
type Classification struct {
	Key         string
	Category    string
	Description string
}

// taxonomy is ordered: the scan in Classify walks it top to bottom and
// the first containment match wins. Reordering entries changes
// classification results, so treat the order as part of the contract.
var taxonomy = []Classification{
	{"squats", "Lower Body", "Build leg strength and core stability"},
	{"push-ups", "Upper Body", "Strengthen chest, shoulders, and triceps"},
	{"plank", "Core", "Build core endurance and stability"},
	{"lunges", "Lower Body", "Target legs and improve balance"},
	{"burpees", "Full Body", "High-intensity full-body movement"},
	{"mountain climbers", "Cardio", "Core and cardio combination"},
	{"romanian deadlifts", "Lower Body", "Posterior chain strength"},
	{"pull-ups or rows", "Upper Body", "Back and bicep development"},
	{"dips", "Upper Body", "Triceps and chest strength"},
	{"jumping jacks", "Cardio", "Cardio warm-up or finisher"},
}

// Default is returned for empty input and for names that match nothing.
var Default = Classification{
	Key:         "default",
	Category:    "General",
	Description: "Custom exercise",
}

// Classify resolves an exercise name to its taxonomy entry.
//
// The name is lowercased and trimmed first. An exact key match always
// wins; otherwise the table is scanned in declaration order and the
// first entry whose key contains the name or is contained by it is
// returned. No match means Default.
func Classify(name string) Classification {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return Default
	}

	for _, entry := range taxonomy {
		if entry.Key == normalized {
			return entry
		}
	}

	for _, entry := range taxonomy {
		if strings.Contains(normalized, entry.Key) || strings.Contains(entry.Key, normalized) {
			return entry
		}
	}

	return Default
}

// Taxonomy returns a copy of the classification table in declaration
// order, default entry excluded.
func Taxonomy() []Classification {
	out := make([]Classification, len(taxonomy))
	copy(out, taxonomy)
	return out
}
