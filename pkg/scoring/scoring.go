package scoring

type Class string

const (
	TruePositive  Class = "true_positive"
	TrueNegative  Class = "true_negative"
	FalsePositive Class = "false_positive"
	FalseNegative Class = "false_negative"
)

type QualityTier string

const (
	TierGood             QualityTier = "good"
	TierNeedsImprovement QualityTier = "needs_improvement"
	TierPoor             QualityTier = "poor"
)

const (
	goodAccuracyThreshold       = 0.9
	acceptableAccuracyThreshold = 0.7
)

// Sample is one labeled suite case: what the case expected against what the
// evaluation produced.
type Sample struct {
	ExpectedShouldPass bool
	ActualPassed       bool
}

// Metrics is the confusion matrix over a suite run plus its derived rates.
// Errored cases never enter the matrix; they are carried alongside so callers
// can report them without skewing the rates.
type Metrics struct {
	TruePositive  int `json:"true_positive"`
	FalsePositive int `json:"false_positive"`
	TrueNegative  int `json:"true_negative"`
	FalseNegative int `json:"false_negative"`
	Total         int `json:"total"`
	Errors        int `json:"errors"`

	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`

	Quality QualityTier `json:"quality"`
}

// Classify maps one expected/actual pair onto the matrix. A pass that should
// have been a block is the false positive: the rule missed real bad input.
func Classify(expectedShouldPass, actualPassed bool) Class {
	switch {
	case actualPassed && expectedShouldPass:
		return TruePositive
	case !actualPassed && !expectedShouldPass:
		return TrueNegative
	case actualPassed && !expectedShouldPass:
		return FalsePositive
	default:
		return FalseNegative
	}
}

// Compute aggregates labeled samples into metrics. errorCount is the number of
// cases that could not be evaluated at all.
func Compute(samples []Sample, errorCount int) Metrics {
	m := Metrics{
		Total:  len(samples),
		Errors: errorCount,
	}

	for _, s := range samples {
		switch Classify(s.ExpectedShouldPass, s.ActualPassed) {
		case TruePositive:
			m.TruePositive++
		case TrueNegative:
			m.TrueNegative++
		case FalsePositive:
			m.FalsePositive++
		case FalseNegative:
			m.FalseNegative++
		}
	}

	if m.Total > 0 {
		m.Accuracy = float64(m.TruePositive+m.TrueNegative) / float64(m.Total)
	}
	m.Precision = ratio(m.TruePositive, m.TruePositive+m.FalsePositive)
	m.Recall = ratio(m.TruePositive, m.TruePositive+m.FalseNegative)
	if m.Precision+m.Recall > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	m.Quality = tierFor(m.Accuracy)
	return m
}

func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// tierFor is advisory reporting only; no caller blocks on it.
func tierFor(accuracy float64) QualityTier {
	switch {
	case accuracy >= goodAccuracyThreshold:
		return TierGood
	case accuracy >= acceptableAccuracyThreshold:
		return TierNeedsImprovement
	default:
		return TierPoor
	}
}
