package prediction

import (
	"fmt"
	"sort"

	"github.com/padraicbc/footyvalue/models"
)

// ExpectedValues returns p[i]*odds[i] - 1 for each outcome.
func ExpectedValues(p, odds [3]float64) [3]float64 {
	var v [3]float64
	for i := range v {
		v[i] = p[i]*odds[i] - 1
	}
	return v
}

// ExpectedValuesSlice is ExpectedValues for callers holding slices.
func ExpectedValuesSlice(p, odds []float64) ([]float64, error) {
	if len(p) != 3 || len(odds) != 3 {
		return nil, fmt.Errorf("%w: want 3 probabilities and 3 odds, got %d and %d", ErrMalformedInput, len(p), len(odds))
	}
	v := ExpectedValues([3]float64(p), [3]float64(odds))
	return v[:], nil
}

// BestOutcome returns the outcome with the highest expected value.
// Ties go to the lower index, so Home beats Draw beats Away.
func BestOutcome(values [3]float64) (models.Outcome, float64) {
	best := models.OutcomeHome
	for _, o := range models.Outcomes[1:] {
		if values[o] > values[best] {
			best = o
		}
	}
	return best, values[best]
}

// Confidence is the gap between the two largest probabilities.
func Confidence(p [3]float64) float64 {
	s := []float64{p[0], p[1], p[2]}
	sort.Sort(sort.Reverse(sort.Float64Slice(s)))
	return s[0] - s[1]
}

// ConfidenceBand labels a confidence score for display.
func ConfidenceBand(c float64) string {
	switch {
	case c >= 0.2:
		return "high"
	case c >= 0.1:
		return "medium"
	}
	return "low"
}

// ValueBand labels an expected value for display.
func ValueBand(v float64) string {
	switch {
	case v >= 0.2:
		return "excellent"
	case v >= 0.1:
		return "good"
	case v >= 0.05:
		return "acceptable"
	}
	return "poor"
}
