package evaluation

// Pair is one (expected, actual) boolean observation for a single
// category, with polarity already normalized so that true is always the
// positive class. Error records must be filtered out before pairs are
// built.
type Pair struct {
	Expected bool
	Actual   bool
}

// PairFor builds the normalized pair for a category from ground-truth and
// predicted label sets.
//
// For the safe category the positive class is "unsafe": an image the
// detector correctly refuses to clear (expected=false, actual=false)
// counts as a true positive. The four PII categories use presence=true as
// the positive class. Normalizing here keeps the accumulator itself
// polarity-agnostic.
func PairFor(c Category, expected, actual LabelSet) Pair {
	e := expected.Get(c)
	a := actual.Get(c)
	if c == CategorySafe {
		return Pair{Expected: !e, Actual: !a}
	}
	return Pair{Expected: e, Actual: a}
}

// ConfusionCounts is the 2x2 confusion matrix for one category. The four
// buckets partition the non-error records: TP+TN+FP+FN always equals the
// number of pairs accumulated, regardless of class balance.
type ConfusionCounts struct {
	TP int `json:"tp"`
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
}

// Accumulate classifies each pair into exactly one confusion bucket.
// The matrix shape is fixed at 2x2: a degenerate input where every value
// is identical still yields the full four-bucket layout, it never
// collapses to a smaller shape.
func Accumulate(pairs []Pair) ConfusionCounts {
	var c ConfusionCounts
	for _, p := range pairs {
		switch {
		case p.Expected && p.Actual:
			c.TP++
		case !p.Expected && !p.Actual:
			c.TN++
		case !p.Expected && p.Actual:
			c.FP++
		default: // expected true, actual false
			c.FN++
		}
	}
	return c
}

// Total returns the number of non-error records behind these counts.
func (c ConfusionCounts) Total() int {
	return c.TP + c.TN + c.FP + c.FN
}

// Scores are the derived classification metrics for one category. Each is
// in [0,1] and defined as 0 when its denominator is 0.
type Scores struct {
	Accuracy    float64 `json:"accuracy"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1          float64 `json:"f1"`
	Specificity float64 `json:"specificity"`
}

// DeriveScores computes accuracy, precision, recall, F1 and specificity
// from the confusion counts. No smoothing or clipping is applied.
func (c ConfusionCounts) DeriveScores() Scores {
	var s Scores
	s.Accuracy = ratio(c.TP+c.TN, c.Total())
	s.Precision = ratio(c.TP, c.TP+c.FP)
	s.Recall = ratio(c.TP, c.TP+c.FN)
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	s.Specificity = ratio(c.TN, c.TN+c.FP)
	return s
}

// Correct returns the number of records classified correctly.
func (c ConfusionCounts) Correct() int {
	return c.TP + c.TN
}

// Incorrect returns the number of records misclassified.
func (c ConfusionCounts) Incorrect() int {
	return c.FP + c.FN
}

// ErrorRate is the fraction of non-error records classified incorrectly.
func (c ConfusionCounts) ErrorRate() float64 {
	return ratio(c.FP+c.FN, c.Total())
}

// FalsePositiveRate is FP over all expected negatives.
func (c ConfusionCounts) FalsePositiveRate() float64 {
	return ratio(c.FP, c.FP+c.TN)
}

// FalseNegativeRate is FN over all expected positives.
func (c ConfusionCounts) FalseNegativeRate() float64 {
	return ratio(c.FN, c.FN+c.TP)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
