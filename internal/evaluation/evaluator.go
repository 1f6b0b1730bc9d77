package evaluation

import "time"

// Evaluate runs the metrics engine over a sequence of normalized
// outcomes and builds the aggregate report. This is the single
// computation path shared by the live collector run and the standalone
// CSV reconstruction: both feed Outcome values through the same
// accumulator, so the two pipelines cannot drift.
func Evaluate(outcomes []Outcome) *Report {
	report := &Report{
		Timestamp: time.Now(),
		Total:     len(outcomes),
		Results:   make(map[Category]CategoryResult, len(Categories())),
	}

	clean := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Errored {
			report.Errored++
			continue
		}
		clean = append(clean, o)
	}

	for _, cat := range Categories() {
		pairs := make([]Pair, len(clean))
		for i, o := range clean {
			pairs[i] = PairFor(cat, o.Expected, o.Actual)
		}
		counts := Accumulate(pairs)
		report.Results[cat] = CategoryResult{
			Counts: counts,
			Scores: counts.DeriveScores(),
		}
	}

	return report
}
