package classifier

import (
	"fmt"
	"math"
)

// Normalizer standardizes features to zero mean and unit variance using
// statistics from the training set.
type Normalizer struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitNormalizer computes per-column mean and population standard deviation.
// Constant columns get a standard deviation of 1 so they map to 0.
func FitNormalizer(rows [][]float64) *Normalizer {
	if len(rows) == 0 {
		return &Normalizer{}
	}
	dim := len(rows[0])
	n := &Normalizer{Mean: make([]float64, dim), Std: make([]float64, dim)}
	count := float64(len(rows))

	for _, r := range rows {
		for j, v := range r {
			n.Mean[j] += v
		}
	}
	for j := range n.Mean {
		n.Mean[j] /= count
	}

	for _, r := range rows {
		for j, v := range r {
			d := v - n.Mean[j]
			n.Std[j] += d * d
		}
	}
	for j := range n.Std {
		n.Std[j] = math.Sqrt(n.Std[j] / count)
		if n.Std[j] < 1e-12 {
			n.Std[j] = 1
		}
	}
	return n
}

// Transform returns a standardized copy of x.
func (n *Normalizer) Transform(x []float64) ([]float64, error) {
	if len(x) != len(n.Mean) {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimension, len(x), len(n.Mean))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - n.Mean[j]) / n.Std[j]
	}
	return out, nil
}
