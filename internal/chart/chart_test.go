package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/safepost/safepost-eval/internal/evaluation"
)

func sampleReport() *evaluation.Report {
	expected := evaluation.ExpectedFor(evaluation.CategoryEmails)
	return evaluation.Evaluate([]evaluation.Outcome{
		{Expected: expected, Actual: evaluation.LabelSet{Emails: true}},
		{Expected: expected, Actual: evaluation.LabelSet{Safe: true}},
		{Expected: expected, Actual: evaluation.LabelSet{Emails: true, Address: true}},
	})
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("chart %s not written: %v", filepath.Base(path), err)
		return
	}
	if info.Size() == 0 {
		t.Errorf("chart %s is empty", filepath.Base(path))
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "analysis")
	if err := WriteAll(sampleReport(), dir); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	for _, cat := range evaluation.Categories() {
		assertPNG(t, filepath.Join(dir, "confusion_"+string(cat)+".png"))
	}
	assertPNG(t, filepath.Join(dir, "metrics_comparison.png"))
	assertPNG(t, filepath.Join(dir, "metrics_heatmap.png"))
	assertPNG(t, filepath.Join(dir, "error_analysis.png"))
	assertPNG(t, filepath.Join(dir, "correct_incorrect.png"))
}

func TestCorrectIncorrect(t *testing.T) {
	rep := sampleReport()
	path := filepath.Join(t.TempDir(), "correct_incorrect.png")
	if err := CorrectIncorrect(rep, path); err != nil {
		t.Fatalf("CorrectIncorrect() error = %v", err)
	}
	assertPNG(t, path)

	// The chart consumes the report's counts directly: per category,
	// correct + incorrect covers every non-error record.
	for _, cat := range evaluation.Categories() {
		counts := rep.Result(cat).Counts
		if counts.Correct()+counts.Incorrect() != counts.Total() {
			t.Errorf("%s correct+incorrect = %d, want %d", cat,
				counts.Correct()+counts.Incorrect(), counts.Total())
		}
	}
}

func TestConfusionHeatmapDegenerateCounts(t *testing.T) {
	// An all-same-value input must still render as a full 2x2 grid.
	rep := evaluation.Evaluate([]evaluation.Outcome{
		{Expected: evaluation.ExpectedFor(evaluation.CategoryAddress), Actual: evaluation.LabelSet{Address: true}},
		{Expected: evaluation.ExpectedFor(evaluation.CategoryAddress), Actual: evaluation.LabelSet{Address: true}},
	})

	g := confusionGrid{counts: rep.Result(evaluation.CategoryAddress).Counts}
	if c, r := g.Dims(); c != 2 || r != 2 {
		t.Fatalf("Dims() = %dx%d, want 2x2", c, r)
	}
	if g.Z(1, 1) != 2 {
		t.Errorf("tp cell = %f, want 2", g.Z(1, 1))
	}
	if g.Z(0, 0) != 0 || g.Z(1, 0) != 0 || g.Z(0, 1) != 0 {
		t.Error("degenerate input leaked into other cells")
	}

	path := filepath.Join(t.TempDir(), "confusion_address.png")
	if err := ConfusionHeatmap(rep.Result(evaluation.CategoryAddress), evaluation.CategoryAddress, path); err != nil {
		t.Fatalf("ConfusionHeatmap() error = %v", err)
	}
	assertPNG(t, path)
}

func TestScoreGridMatchesReport(t *testing.T) {
	rep := sampleReport()
	g := scoreGrid{rep: rep}

	c, r := g.Dims()
	if c != 5 || r != 5 {
		t.Fatalf("Dims() = %dx%d, want 5x5", c, r)
	}

	// Row order follows Categories(), column 0 is accuracy.
	for i, cat := range evaluation.Categories() {
		if got, want := g.Z(0, i), rep.Result(cat).Scores.Accuracy; got != want {
			t.Errorf("accuracy cell for %s = %f, want %f", cat, got, want)
		}
		if got, want := g.Z(3, i), rep.Result(cat).Scores.F1; got != want {
			t.Errorf("f1 cell for %s = %f, want %f", cat, got, want)
		}
	}
}
