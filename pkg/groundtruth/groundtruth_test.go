package groundtruth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		input1 string
		input2 string
		expect int
	}{
		{"kitten", "sitting", 3},
		{"splunk", "spunk", 1},
		{"qradar", "radar", 1},
		{"T1059", "t1059", 0},
		{"", "chronicle", 9},
		{"elastic", "", 7},
	}

	for _, tt := range tests {
		result := levenshteinDistance(tt.input1, tt.input2)
		assert.Equal(t, tt.expect, result, "levenshtein distance mismatch for %q/%q", tt.input1, tt.input2)
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("test", "test"), 0.001)
	assert.InDelta(t, 1.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 0.75, Similarity("test", "tent"), 0.001)
	assert.InDelta(t, 0.2, Similarity("hello", "world"), 0.001)
	assert.InDelta(t, 0.0, Similarity("", "abcd"), 0.001)
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"powershell -enc", "powershell -e"},
		{"192.168.1.100", "192.168.1.101"},
		{"", "sentinel"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]))
	}
}

func TestWordOverlap(t *testing.T) {
	assert.InDelta(t, 1.0, WordOverlap("malware on host", "malware on host"), 0.001)
	assert.InDelta(t, 1.0, WordOverlap("", ""), 0.001)
	assert.InDelta(t, 0.0, WordOverlap("alpha beta", "gamma delta"), 0.001)
	// {malware, detected, on, host} vs {malware, found, on, host}: 3 shared of 5.
	assert.InDelta(t, 0.6, WordOverlap("malware detected on host", "malware found on host"), 0.001)
	// Tokenization is case-insensitive and ignores punctuation besides dots.
	assert.InDelta(t, 1.0, WordOverlap("Attacker IP: 10.0.0.5", "attacker ip 10.0.0.5"), 0.001)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"10.0.0.5", "attacker", "ip"}, Words("Attacker IP: 10.0.0.5"))
	assert.Empty(t, Words("  ,;  "))
}

func TestValidate_ExactMatch(t *testing.T) {
	result := Validate("What IP exfiltrated the data?", "192.168.1.100", "192.168.1.100")

	assert.True(t, result.ExactMatch)
	assert.InDelta(t, 1.0, result.Similarity, 0.001)
	assert.InDelta(t, 1.0, result.WordOverlap, 0.001)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, AssessmentPass, result.Assessment)
}

func TestValidate_ExactMatchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	result := Validate("Which technique?", "  T1059.001 ", "t1059.001")

	assert.True(t, result.ExactMatch)
	assert.Equal(t, AssessmentPass, result.Assessment)
}

func TestValidate_HighSimilarityPassesWithoutExactMatch(t *testing.T) {
	// One substitution across five characters: similarity exactly 0.8.
	result := Validate("q", "abcde", "abcdx")

	assert.False(t, result.ExactMatch)
	assert.InDelta(t, 0.8, result.Similarity, 0.001)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, AssessmentPass, result.Assessment)
}

func TestValidate_MediumConfidenceNeedsReview(t *testing.T) {
	// Two substitutions across four characters: similarity exactly 0.5.
	result := Validate("q", "abcd", "abxy")

	assert.False(t, result.ExactMatch)
	assert.InDelta(t, 0.5, result.Similarity, 0.001)
	assert.Equal(t, ConfidenceMedium, result.Confidence)
	assert.Equal(t, AssessmentReview, result.Assessment)
}

func TestValidate_DivergentAnswerNeedsReview(t *testing.T) {
	result := Validate(
		"What was the initial access vector?",
		"Spearphishing attachment delivered via invoice email",
		"The host rebooted unexpectedly",
	)

	assert.False(t, result.ExactMatch)
	assert.Less(t, result.Similarity, 0.5)
	assert.Equal(t, ConfidenceLow, result.Confidence)
	assert.Equal(t, AssessmentReview, result.Assessment)
}

func TestValidate_EchoesInputs(t *testing.T) {
	result := Validate("query", "expected", "actual")

	assert.Equal(t, "query", result.Query)
	assert.Equal(t, "expected", result.ExpectedAnswer)
	assert.Equal(t, "actual", result.ActualAnswer)
}
