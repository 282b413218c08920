package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
		actual   bool
		class    Class
	}{
		{"correctly allowed", true, true, TruePositive},
		{"correctly blocked", false, false, TrueNegative},
		{"missed block", false, true, FalsePositive},
		{"false alarm", true, false, FalseNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, Classify(tt.expected, tt.actual))
		})
	}
}

func TestCompute_OneOfEachClass(t *testing.T) {
	samples := []Sample{
		{ExpectedShouldPass: true, ActualPassed: true},
		{ExpectedShouldPass: true, ActualPassed: false},
		{ExpectedShouldPass: false, ActualPassed: true},
		{ExpectedShouldPass: false, ActualPassed: false},
	}

	m := Compute(samples, 0)

	assert.Equal(t, 1, m.TruePositive)
	assert.Equal(t, 1, m.FalseNegative)
	assert.Equal(t, 1, m.FalsePositive)
	assert.Equal(t, 1, m.TrueNegative)
	assert.Equal(t, 4, m.Total)
	assert.InDelta(t, 0.5, m.Accuracy, 0.001)
	assert.InDelta(t, 0.5, m.Precision, 0.001)
	assert.InDelta(t, 0.5, m.Recall, 0.001)
	assert.InDelta(t, 0.5, m.F1Score, 0.001)
	assert.Equal(t, TierPoor, m.Quality)
}

func TestCompute_AllCorrect(t *testing.T) {
	samples := []Sample{
		{ExpectedShouldPass: true, ActualPassed: true},
		{ExpectedShouldPass: true, ActualPassed: true},
		{ExpectedShouldPass: false, ActualPassed: false},
	}

	m := Compute(samples, 0)

	assert.Equal(t, 2, m.TruePositive)
	assert.Equal(t, 1, m.TrueNegative)
	assert.InDelta(t, 1.0, m.Accuracy, 0.001)
	assert.InDelta(t, 1.0, m.Precision, 0.001)
	assert.InDelta(t, 1.0, m.Recall, 0.001)
	assert.InDelta(t, 1.0, m.F1Score, 0.001)
	assert.Equal(t, TierGood, m.Quality)
}

func TestCompute_ZeroDenominatorsAreZero(t *testing.T) {
	// Every case expected and produced a block: no positives anywhere.
	samples := []Sample{
		{ExpectedShouldPass: false, ActualPassed: false},
		{ExpectedShouldPass: false, ActualPassed: false},
	}

	m := Compute(samples, 0)

	assert.Zero(t, m.Precision)
	assert.Zero(t, m.Recall)
	assert.Zero(t, m.F1Score)
	assert.InDelta(t, 1.0, m.Accuracy, 0.001)
}

func TestCompute_EmptySuite(t *testing.T) {
	m := Compute(nil, 0)

	assert.Zero(t, m.Total)
	assert.Zero(t, m.Accuracy)
	assert.Zero(t, m.F1Score)
	assert.Equal(t, TierPoor, m.Quality)
}

func TestCompute_ErrorsStayOutOfTheMatrix(t *testing.T) {
	samples := []Sample{
		{ExpectedShouldPass: true, ActualPassed: true},
		{ExpectedShouldPass: false, ActualPassed: false},
	}

	m := Compute(samples, 3)

	assert.Equal(t, 2, m.Total)
	assert.Equal(t, 3, m.Errors)
	assert.InDelta(t, 1.0, m.Accuracy, 0.001)
}

func TestCompute_QualityTiers(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
		tier    QualityTier
	}{
		{
			"nine of ten correct is good",
			append(repeat(Sample{true, true}, 9), Sample{true, false}),
			TierGood,
		},
		{
			"seven of ten correct needs improvement",
			append(repeat(Sample{true, true}, 7), repeat(Sample{true, false}, 3)...),
			TierNeedsImprovement,
		},
		{
			"five of ten correct is poor",
			append(repeat(Sample{true, true}, 5), repeat(Sample{true, false}, 5)...),
			TierPoor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.tier, Compute(tt.samples, 0).Quality)
		})
	}
}

func repeat(s Sample, n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = s
	}
	return out
}
