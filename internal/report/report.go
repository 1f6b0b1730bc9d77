// Package report renders an evaluation report as console text and a
// summary CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
)

const rule = "================================================================================"
const thinRule = "--------------------------------------------------------------------------------"

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// Console writes the full human-readable evaluation report.
func Console(w io.Writer, rep *evaluation.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "EVALUATION REPORT")
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "\nTotal Images Tested: %d\n", rep.Total)
	if rep.Errored > 0 {
		fmt.Fprintf(w, "Errored: %d of %d records (excluded from all confusion matrices)\n", rep.Errored, rep.Total)
	}
	fmt.Fprintln(w)

	safe := rep.Result(evaluation.CategorySafe)
	fmt.Fprintln(w, "OVERALL SAFE/UNSAFE DETECTION")
	fmt.Fprintln(w, thinRule)
	fmt.Fprintf(w, "Accuracy: %s\n", pct(safe.Scores.Accuracy))
	fmt.Fprintf(w, "True Positives (correctly flagged unsafe): %d\n", safe.Counts.TP)
	fmt.Fprintf(w, "True Negatives (correctly flagged safe): %d\n", safe.Counts.TN)
	fmt.Fprintf(w, "False Positives (flagged unsafe when safe): %d\n", safe.Counts.FP)
	fmt.Fprintf(w, "False Negatives (flagged safe when unsafe): %d\n", safe.Counts.FN)
	fmt.Fprintf(w, "Precision: %s\n", pct(safe.Scores.Precision))
	fmt.Fprintf(w, "Recall: %s\n", pct(safe.Scores.Recall))
	fmt.Fprintf(w, "F1 Score: %s\n", pct(safe.Scores.F1))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "CATEGORY-SPECIFIC METRICS")
	fmt.Fprintln(w, rule)

	for _, cat := range evaluation.PIICategories() {
		r := rep.Result(cat)
		fmt.Fprintf(w, "\n%s\n", strings.ToUpper(cat.DisplayName()))
		fmt.Fprintln(w, thinRule)
		fmt.Fprintf(w, "Accuracy: %s\n", pct(r.Scores.Accuracy))
		fmt.Fprintf(w, "Precision: %s\n", pct(r.Scores.Precision))
		fmt.Fprintf(w, "Recall: %s\n", pct(r.Scores.Recall))
		fmt.Fprintf(w, "F1 Score: %s\n", pct(r.Scores.F1))
		fmt.Fprintf(w, "Specificity: %s\n", pct(r.Scores.Specificity))
		fmt.Fprintln(w, "\nConfusion Matrix:")
		fmt.Fprintf(w, "  True Positives:  %4d  |  False Negatives: %4d\n", r.Counts.TP, r.Counts.FN)
		fmt.Fprintf(w, "  False Positives: %4d  |  True Negatives:  %4d\n", r.Counts.FP, r.Counts.TN)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "CONFUSION MATRIX SUMMARY")
	fmt.Fprintln(w, rule)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Category\tTP\tTN\tFP\tFN\tAccuracy")
	for _, cat := range evaluation.Categories() {
		r := rep.Result(cat)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			cat.DisplayName(), r.Counts.TP, r.Counts.TN, r.Counts.FP, r.Counts.FN, pct(r.Scores.Accuracy))
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}

// WriteSummaryCSV writes the per-category metrics table to path.
func WriteSummaryCSV(path string, rep *evaluation.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.ResultsError("creating summary CSV", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Category", "Accuracy", "Precision", "Recall", "F1 Score", "Specificity", "TP", "TN", "FP", "FN"}
	if err := w.Write(header); err != nil {
		return apperrors.ResultsError("writing summary header", err)
	}

	for _, cat := range evaluation.Categories() {
		r := rep.Result(cat)
		row := []string{
			cat.DisplayName(),
			pct(r.Scores.Accuracy),
			pct(r.Scores.Precision),
			pct(r.Scores.Recall),
			pct(r.Scores.F1),
			pct(r.Scores.Specificity),
			strconv.Itoa(r.Counts.TP),
			strconv.Itoa(r.Counts.TN),
			strconv.Itoa(r.Counts.FP),
			strconv.Itoa(r.Counts.FN),
		}
		if err := w.Write(row); err != nil {
			return apperrors.ResultsError("writing summary row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.ResultsError("flushing summary CSV", err)
	}
	return nil
}
