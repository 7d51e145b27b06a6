// Package estimator implements the three classical estimators served by the
// model registry: a softmax difficulty classifier, a ridge score regressor,
// and a k-means comprehension clusterer, plus the standard scaler and
// evaluation metrics they share.
//
// Everything here is deterministic by construction: fixed seeds, fixed
// iteration counts, zero-initialized weights. Identical training data always
// yields an identical fitted model, which keeps artifacts reproducible.
package estimator

import (
	"math"
	"math/rand"
)

// Shared training constants.
const (
	// Seed fixes every random choice in training (shuffles, centroid picks).
	Seed = 42

	// EvalFraction is the share of examples held out for evaluation.
	EvalFraction = 0.2
)

// Example is one training example: a feature vector plus its label. Label is
// categorical for classification, Target continuous for regression, and both
// are ignored for clustering.
type Example struct {
	Features []float64 `json:"features"`
	Label    string    `json:"label,omitempty"`
	Target   float64   `json:"target,omitempty"`
}

// Split shuffles examples with the fixed seed and partitions them into
// train/eval sets. The eval partition holds at least one example whenever
// there are two or more.
func Split(examples []Example) (train, eval []Example) {
	shuffled := make([]Example, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(Seed)) //nolint:gosec // deterministic split, not crypto
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := int(math.Round(float64(len(shuffled)) * EvalFraction))
	if n < 1 && len(shuffled) > 1 {
		n = 1
	}
	cut := len(shuffled) - n
	return shuffled[:cut], shuffled[cut:]
}

// Scaler standardizes features to zero mean and unit variance, fitted on the
// training partition only. Constant features keep a unit scale so transform
// never divides by zero.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-feature mean and standard deviation over rows.
func FitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}
	dim := len(rows[0])
	s := &Scaler{
		Mean: make([]float64, dim),
		Std:  make([]float64, dim),
	}
	for _, row := range rows {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= float64(len(rows))
	}
	for _, row := range rows {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / float64(len(rows)))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return s
}

// Transform standardizes one feature vector.
func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// TransformAll standardizes a batch of rows.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}

// Features extracts the feature matrix from examples.
func Features(examples []Example) [][]float64 {
	rows := make([][]float64, len(examples))
	for i, ex := range examples {
		rows[i] = ex.Features
	}
	return rows
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
