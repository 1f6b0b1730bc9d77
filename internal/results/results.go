// Package results persists per-image evaluation records and reloads them
// for standalone analysis.
package results

import (
	"github.com/safepost/safepost-eval/internal/evaluation"
)

// Record is one evaluated test image. Either the detector call succeeded
// and Actual holds the full prediction, or Error is non-empty and Actual
// is meaningless.
type Record struct {
	ImagePath string
	Category  evaluation.Category
	Expected  evaluation.LabelSet
	Actual    evaluation.LabelSet

	Message              string
	Reasoning            string
	RedactionSuggestions []string

	// Error holds the detector failure cause; empty means success.
	Error string
}

// Errored reports whether the detector call for this record failed.
func (r Record) Errored() bool {
	return r.Error != ""
}

// Outcome converts the record into the metrics engine's normalized
// input.
func (r Record) Outcome() evaluation.Outcome {
	return evaluation.Outcome{
		Expected: r.Expected,
		Actual:   r.Actual,
		Errored:  r.Errored(),
	}
}

// Outcomes converts a record list for the metrics engine.
func Outcomes(records []Record) []evaluation.Outcome {
	outcomes := make([]evaluation.Outcome, len(records))
	for i, r := range records {
		outcomes[i] = r.Outcome()
	}
	return outcomes
}
