package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/safepost/safepost-eval/internal/evaluation"
	"github.com/safepost/safepost-eval/internal/results"
)

// ReasoningSummary lists the detector's per-image reasoning alongside the
// safe verdict, skipping error records.
func ReasoningSummary(w io.Writer, records []results.Record) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "REASONING SUMMARY")
	fmt.Fprintln(w, rule)

	for i, r := range records {
		if r.Errored() {
			continue
		}

		status := "OK"
		if r.Actual.Safe != r.Expected.Safe {
			status = "MISS"
		}

		fmt.Fprintf(w, "\n[%d] %s/%s %s\n", i+1, r.Category, r.ImagePath, status)
		reasoning := r.Reasoning
		if reasoning == "" {
			reasoning = "N/A"
		}
		fmt.Fprintf(w, "    Reasoning: %s\n", reasoning)

		var detected []string
		for _, cat := range evaluation.PIICategories() {
			if r.Actual.Get(cat) {
				detected = append(detected, string(cat))
			}
		}
		if len(detected) > 0 {
			fmt.Fprintf(w, "    Detected: %s\n", strings.Join(detected, ", "))
		} else {
			fmt.Fprintln(w, "    Detected: none")
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}
