// Package chart renders evaluation reports as raster charts. All numeric
// series come from the aggregate report; no metric is re-derived here.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
)

// Chart series colors, one per metric.
var (
	colorBlue   = color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}
	colorGreen  = color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
	colorRed    = color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
	colorOrange = color.RGBA{R: 0xf3, G: 0x9c, B: 0x12, A: 0xff}
	colorPurple = color.RGBA{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff}
)

// WriteAll renders the full chart set into dir: one confusion heatmap per
// category, the metrics comparison and heatmap, the error analysis and
// the correct-vs-incorrect counts.
func WriteAll(rep *evaluation.Report, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.ChartError("creating chart directory", err)
	}

	for _, cat := range evaluation.Categories() {
		path := filepath.Join(dir, fmt.Sprintf("confusion_%s.png", cat))
		if err := ConfusionHeatmap(rep.Result(cat), cat, path); err != nil {
			return err
		}
	}

	if err := MetricsComparison(rep, filepath.Join(dir, "metrics_comparison.png")); err != nil {
		return err
	}
	if err := MetricsHeatmap(rep, filepath.Join(dir, "metrics_heatmap.png")); err != nil {
		return err
	}
	if err := ErrorAnalysis(rep, filepath.Join(dir, "error_analysis.png")); err != nil {
		return err
	}
	return CorrectIncorrect(rep, filepath.Join(dir, "correct_incorrect.png"))
}

// confusionGrid lays the four counts out as a fixed 2x2 grid: rows are
// the actual class (negative below, positive above), columns the
// predicted class.
type confusionGrid struct {
	counts evaluation.ConfusionCounts
}

func (g confusionGrid) Dims() (c, r int) { return 2, 2 }

func (g confusionGrid) X(c int) float64 { return float64(c) }

func (g confusionGrid) Y(r int) float64 { return float64(r) }

func (g confusionGrid) Z(c, r int) float64 {
	// (col, row): (0,0)=tn (1,0)=fp (0,1)=fn (1,1)=tp
	switch {
	case c == 0 && r == 0:
		return float64(g.counts.TN)
	case c == 1 && r == 0:
		return float64(g.counts.FP)
	case c == 0 && r == 1:
		return float64(g.counts.FN)
	default:
		return float64(g.counts.TP)
	}
}

func classTicks() plot.ConstantTicks {
	return plot.ConstantTicks([]plot.Tick{
		{Value: 0, Label: "Negative"},
		{Value: 1, Label: "Positive"},
	})
}

// ConfusionHeatmap renders one category's 2x2 confusion matrix.
func ConfusionHeatmap(result evaluation.CategoryResult, cat evaluation.Category, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s\nAccuracy: %s | Precision: %s | Recall: %s | F1: %s\nTP: %d  TN: %d  FP: %d  FN: %d",
		cat.DisplayName(),
		pct(result.Scores.Accuracy), pct(result.Scores.Precision),
		pct(result.Scores.Recall), pct(result.Scores.F1),
		result.Counts.TP, result.Counts.TN, result.Counts.FP, result.Counts.FN)
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"
	p.X.Tick.Marker = classTicks()
	p.Y.Tick.Marker = classTicks()

	hm := plotter.NewHeatMap(confusionGrid{counts: result.Counts}, palette.Heat(12, 1))
	p.Add(hm)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return apperrors.ChartError("saving confusion heatmap", err)
	}
	return nil
}

// MetricsComparison renders the grouped bar chart of all five scores
// across all categories.
func MetricsComparison(rep *evaluation.Report, path string) error {
	p := plot.New()
	p.Title.Text = "Performance Metrics Comparison Across Categories"
	p.X.Label.Text = "Category"
	p.Y.Label.Text = "Score"
	p.Y.Max = 1.1

	series := []struct {
		name  string
		color color.Color
		value func(evaluation.Scores) float64
	}{
		{"Accuracy", colorBlue, func(s evaluation.Scores) float64 { return s.Accuracy }},
		{"Precision", colorGreen, func(s evaluation.Scores) float64 { return s.Precision }},
		{"Recall", colorRed, func(s evaluation.Scores) float64 { return s.Recall }},
		{"F1 Score", colorOrange, func(s evaluation.Scores) float64 { return s.F1 }},
		{"Specificity", colorPurple, func(s evaluation.Scores) float64 { return s.Specificity }},
	}

	categories := evaluation.Categories()
	width := vg.Points(10)

	for i, s := range series {
		values := make(plotter.Values, len(categories))
		for j, cat := range categories {
			values[j] = s.value(rep.Result(cat).Scores)
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return apperrors.ChartError("building metrics bars", err)
		}
		bars.Color = s.color
		bars.LineStyle.Width = 0
		bars.Offset = width * vg.Length(i-len(series)/2)

		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.DisplayName()
	}
	p.NominalX(names...)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.ChartError("saving metrics comparison", err)
	}
	return nil
}

// ErrorAnalysis renders per-category error, false-positive and
// false-negative rates.
func ErrorAnalysis(rep *evaluation.Report, path string) error {
	p := plot.New()
	p.Title.Text = "Error Analysis by Category"
	p.X.Label.Text = "Category"
	p.Y.Label.Text = "Rate"
	p.Y.Max = 1.1

	series := []struct {
		name  string
		color color.Color
		value func(evaluation.ConfusionCounts) float64
	}{
		{"Overall Error Rate", colorRed, evaluation.ConfusionCounts.ErrorRate},
		{"False Positive Rate", colorOrange, evaluation.ConfusionCounts.FalsePositiveRate},
		{"False Negative Rate", colorPurple, evaluation.ConfusionCounts.FalseNegativeRate},
	}

	categories := evaluation.Categories()
	width := vg.Points(14)

	for i, s := range series {
		values := make(plotter.Values, len(categories))
		for j, cat := range categories {
			values[j] = s.value(rep.Result(cat).Counts)
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return apperrors.ChartError("building error-analysis bars", err)
		}
		bars.Color = s.color
		bars.LineStyle.Width = 0
		bars.Offset = width * vg.Length(i-1)

		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.DisplayName()
	}
	p.NominalX(names...)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.ChartError("saving error analysis", err)
	}
	return nil
}

// CorrectIncorrect renders correct versus incorrect prediction counts
// per category.
func CorrectIncorrect(rep *evaluation.Report, path string) error {
	p := plot.New()
	p.Title.Text = "Correct vs Incorrect Predictions"
	p.X.Label.Text = "Category"
	p.Y.Label.Text = "Count"

	categories := evaluation.Categories()
	width := vg.Points(18)

	correct := make(plotter.Values, len(categories))
	incorrect := make(plotter.Values, len(categories))
	for i, cat := range categories {
		counts := rep.Result(cat).Counts
		correct[i] = float64(counts.Correct())
		incorrect[i] = float64(counts.Incorrect())
	}

	correctBars, err := plotter.NewBarChart(correct, width)
	if err != nil {
		return apperrors.ChartError("building correct bars", err)
	}
	correctBars.Color = colorGreen
	correctBars.LineStyle.Width = 0
	correctBars.Offset = -width / 2

	incorrectBars, err := plotter.NewBarChart(incorrect, width)
	if err != nil {
		return apperrors.ChartError("building incorrect bars", err)
	}
	incorrectBars.Color = colorRed
	incorrectBars.LineStyle.Width = 0
	incorrectBars.Offset = width / 2

	p.Add(correctBars, incorrectBars)
	p.Legend.Add("Correct", correctBars)
	p.Legend.Add("Incorrect", incorrectBars)

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.DisplayName()
	}
	p.NominalX(names...)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.ChartError("saving correct-incorrect chart", err)
	}
	return nil
}

// scoreGrid lays categories (rows) against the five scores (columns).
type scoreGrid struct {
	rep *evaluation.Report
}

var scoreColumns = []struct {
	name  string
	value func(evaluation.Scores) float64
}{
	{"Accuracy", func(s evaluation.Scores) float64 { return s.Accuracy }},
	{"Precision", func(s evaluation.Scores) float64 { return s.Precision }},
	{"Recall", func(s evaluation.Scores) float64 { return s.Recall }},
	{"F1 Score", func(s evaluation.Scores) float64 { return s.F1 }},
	{"Specificity", func(s evaluation.Scores) float64 { return s.Specificity }},
}

func (g scoreGrid) Dims() (c, r int) {
	return len(scoreColumns), len(evaluation.Categories())
}

func (g scoreGrid) X(c int) float64 { return float64(c) }

func (g scoreGrid) Y(r int) float64 { return float64(r) }

func (g scoreGrid) Z(c, r int) float64 {
	cat := evaluation.Categories()[r]
	return scoreColumns[c].value(g.rep.Result(cat).Scores)
}

// MetricsHeatmap renders every score for every category on one grid.
func MetricsHeatmap(rep *evaluation.Report, path string) error {
	p := plot.New()
	p.Title.Text = "Performance Metrics Heatmap"
	p.X.Label.Text = "Metric"
	p.Y.Label.Text = "Category"

	var xTicks, yTicks []plot.Tick
	for i, col := range scoreColumns {
		xTicks = append(xTicks, plot.Tick{Value: float64(i), Label: col.name})
	}
	for i, cat := range evaluation.Categories() {
		yTicks = append(yTicks, plot.Tick{Value: float64(i), Label: cat.DisplayName()})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	hm := plotter.NewHeatMap(scoreGrid{rep: rep}, palette.Heat(12, 1))
	// Scores live in [0,1]; pin the palette range so identical inputs
	// cannot rescale into a misleading gradient.
	hm.Min = 0
	hm.Max = 1
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return apperrors.ChartError("saving metrics heatmap", err)
	}
	return nil
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
