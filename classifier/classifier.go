// Package classifier fits a three-class (home/draw/away) multinomial logistic
// regression on standardized match features and persists it as a pair of
// artifacts: the normalizer and the weights.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// NumClasses is the number of match outcomes the model separates.
const NumClasses = 3

// MinExamples is the training-set size below which a fitted model is
// flagged as low confidence.
const MinExamples = 50

var (
	ErrNoTrainingData = errors.New("classifier: no training data")
	ErrDimension      = errors.New("classifier: feature dimension mismatch")
	ErrBadLabel       = errors.New("classifier: label out of range")
)

// Example is one labelled feature row.
type Example struct {
	Features []float64
	Label    int
}

// Options controls gradient descent.
type Options struct {
	Iterations      int
	LearningRate    float64
	L2              float64
	HoldoutFraction float64
}

// DefaultOptions are tuned for a few hundred to a few thousand rows of
// 21 standardized features.
func DefaultOptions() Options {
	return Options{
		Iterations:      600,
		LearningRate:    0.3,
		L2:              1e-3,
		HoldoutFraction: 0.2,
	}
}

// Model is a fitted normalizer plus one weight vector per class.
// Weights[k][0] is the bias of class k.
type Model struct {
	Normalizer *Normalizer
	Weights    [][]float64
	Examples   int
	TrainedAt  time.Time
}

// Dim returns the number of input features the model expects.
func (m *Model) Dim() int {
	return len(m.Normalizer.Mean)
}

// Predict standardizes x and returns the most likely class and the class
// probabilities, which sum to 1.
func (m *Model) Predict(x []float64) (int, [NumClasses]float64, error) {
	var probs [NumClasses]float64
	z, err := m.Normalizer.Transform(x)
	if err != nil {
		return 0, probs, err
	}
	probs = softmax(m.Weights, z)
	return argmax(probs), probs, nil
}

// Train fits a model on examples. A deterministic 1-in-5 slice of the data
// is held out to produce the Report; the returned model is then refit on
// every example.
func Train(examples []Example, opts Options) (*Model, Report, error) {
	if len(examples) == 0 {
		return nil, Report{}, ErrNoTrainingData
	}
	dim := len(examples[0].Features)
	for i, ex := range examples {
		if len(ex.Features) != dim {
			return nil, Report{}, fmt.Errorf("%w: example %d has %d features, want %d", ErrDimension, i, len(ex.Features), dim)
		}
		if ex.Label < 0 || ex.Label >= NumClasses {
			return nil, Report{}, fmt.Errorf("%w: example %d has label %d", ErrBadLabel, i, ex.Label)
		}
	}

	report := Report{Examples: len(examples), LowData: len(examples) < MinExamples}

	train, holdout := split(examples, opts.HoldoutFraction)
	report.TrainSize, report.HoldoutSize = len(train), len(holdout)
	if len(holdout) > 0 {
		m := fit(train, opts)
		report.evaluate(m, holdout)
	}

	m := fit(examples, opts)
	return m, report, nil
}

// split holds out every k-th example where k = round(1/fraction), so the
// holdout spreads evenly over the chronological order of the input.
func split(examples []Example, fraction float64) (train, holdout []Example) {
	if fraction <= 0 || fraction >= 1 || len(examples) < 2 {
		return examples, nil
	}
	every := int(math.Round(1 / fraction))
	if every < 2 {
		every = 2
	}
	for i, ex := range examples {
		if i%every == every-1 {
			holdout = append(holdout, ex)
			continue
		}
		train = append(train, ex)
	}
	return train, holdout
}

func fit(examples []Example, opts Options) *Model {
	rows := make([][]float64, len(examples))
	for i, ex := range examples {
		rows[i] = ex.Features
	}
	norm := FitNormalizer(rows)

	xs := make([][]float64, len(examples))
	for i, r := range rows {
		// dimensions were validated by Train
		xs[i], _ = norm.Transform(r)
	}

	dim := len(norm.Mean)
	w := make([][]float64, NumClasses)
	grad := make([][]float64, NumClasses)
	for k := range w {
		w[k] = make([]float64, dim+1)
		grad[k] = make([]float64, dim+1)
	}

	n := float64(len(examples))
	for iter := 0; iter < opts.Iterations; iter++ {
		for k := range grad {
			clear(grad[k])
		}
		for i, x := range xs {
			p := softmax(w, x)
			for k := 0; k < NumClasses; k++ {
				e := p[k]
				if examples[i].Label == k {
					e -= 1
				}
				grad[k][0] += e
				for j, v := range x {
					grad[k][j+1] += e * v
				}
			}
		}
		for k := range w {
			w[k][0] -= opts.LearningRate * grad[k][0] / n
			for j := 1; j < len(w[k]); j++ {
				w[k][j] -= opts.LearningRate * (grad[k][j]/n + opts.L2*w[k][j])
			}
		}
	}

	return &Model{
		Normalizer: norm,
		Weights:    w,
		Examples:   len(examples),
		TrainedAt:  time.Now().UTC(),
	}
}

func softmax(w [][]float64, x []float64) [NumClasses]float64 {
	var z [NumClasses]float64
	for k := 0; k < NumClasses; k++ {
		s := w[k][0]
		for j, v := range x {
			s += w[k][j+1] * v
		}
		z[k] = s
	}
	hi := z[0]
	for _, v := range z[1:] {
		hi = math.Max(hi, v)
	}
	var sum float64
	for k := range z {
		z[k] = math.Exp(z[k] - hi)
		sum += z[k]
	}
	for k := range z {
		z[k] /= sum
	}
	return z
}

func argmax(p [NumClasses]float64) int {
	best := 0
	for k := 1; k < NumClasses; k++ {
		if p[k] > p[best] {
			best = k
		}
	}
	return best
}
