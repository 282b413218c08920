package groundtruth

import (
	"regexp"
	"sort"
	"strings"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Assessment string

const (
	AssessmentPass   Assessment = "PASS"
	AssessmentReview Assessment = "REVIEW"
)

const (
	highConfidenceThreshold   = 0.8
	mediumConfidenceThreshold = 0.5
)

// Result scores a generated answer against a known-correct one. Transient,
// computed per request.
type Result struct {
	Query          string     `json:"query"`
	ExpectedAnswer string     `json:"expected_answer"`
	ActualAnswer   string     `json:"actual_answer"`
	ExactMatch     bool       `json:"exact_match"`
	Similarity     float64    `json:"similarity"`
	WordOverlap    float64    `json:"word_overlap"`
	Confidence     Confidence `json:"confidence"`
	Assessment     Assessment `json:"assessment"`
}

// Validate compares an actual answer to the expected one. Pure and
// deterministic; identical arguments always produce identical results.
func Validate(query, expectedAnswer, actualAnswer string) Result {
	expected := strings.TrimSpace(expectedAnswer)
	actual := strings.TrimSpace(actualAnswer)

	exact := strings.EqualFold(expected, actual)
	similarity := Similarity(expected, actual)
	overlap := WordOverlap(expected, actual)

	confidence := ConfidenceLow
	switch {
	case similarity >= highConfidenceThreshold:
		confidence = ConfidenceHigh
	case similarity >= mediumConfidenceThreshold:
		confidence = ConfidenceMedium
	}

	assessment := AssessmentReview
	if exact || similarity >= highConfidenceThreshold {
		assessment = AssessmentPass
	}

	return Result{
		Query:          query,
		ExpectedAnswer: expectedAnswer,
		ActualAnswer:   actualAnswer,
		ExactMatch:     exact,
		Similarity:     similarity,
		WordOverlap:    overlap,
		Confidence:     confidence,
		Assessment:     assessment,
	}
}

// Similarity is a normalized edit-distance ratio in [0,1]. Symmetric; two
// empty strings score 1.
func Similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	m := float64(max2(len(s1), len(s2)))
	if m == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/m
}

// WordOverlap is the Jaccard index of the two lowercased word sets.
func WordOverlap(s1, s2 string) float64 {
	words1 := wordSet(s1)
	words2 := wordSet(s2)
	if len(words1) == 0 && len(words2) == 0 {
		return 1.0
	}

	intersection := 0
	for w := range words1 {
		if _, ok := words2[w]; ok {
			intersection++
		}
	}
	union := len(words1) + len(words2) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

var wordSplitter = regexp.MustCompile(`[^a-z0-9.]+`)

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordSplitter.Split(strings.ToLower(s), -1) {
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Words returns the distinct lowercased tokens of s in sorted order.
func Words(s string) []string {
	set := wordSet(s)
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func levenshteinDistance(s1, s2 string) int {
	s1 = strings.ToLower(s1)
	s2 = strings.ToLower(s2)

	l1 := len(s1)
	l2 := len(s2)

	if l1 == 0 {
		return l2
	}
	if l2 == 0 {
		return l1
	}

	// O(min(l1,l2)) space dynamic programming to minimize allocations
	if l1 < l2 {
		s1, s2 = s2, s1
		l1, l2 = l2, l1
	}

	previous := make([]int, l2+1)
	current := make([]int, l2+1)
	for j := 0; j <= l2; j++ {
		previous[j] = j
	}

	for i := 1; i <= l1; i++ {
		current[0] = i
		for j := 1; j <= l2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			insertion := current[j-1] + 1
			deletion := previous[j] + 1
			substitution := previous[j-1] + cost
			current[j] = min3(insertion, deletion, substitution)
		}
		previous, current = current, previous
	}
	return previous[l2]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
