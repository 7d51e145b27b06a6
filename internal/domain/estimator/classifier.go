package estimator

import (
	"fmt"
	"math"
	"sort"
)

// Classifier training hyperparameters.
const (
	classifierEpochs = 500
	classifierRate   = 0.1
	classifierL2     = 1e-3
)

// SoftmaxClassifier is a multinomial logistic regression fitted by batch
// gradient descent on standardized features. Weights start at zero, so
// training is fully deterministic.
type SoftmaxClassifier struct {
	Classes []string    `json:"classes"` // sorted; index = weight row
	Weights [][]float64 `json:"weights"` // [class][feature]
	Bias    []float64   `json:"bias"`    // [class]
}

// FitClassifier trains a classifier on standardized rows and their labels.
func FitClassifier(rows [][]float64, labels []string) (*SoftmaxClassifier, error) {
	if len(rows) == 0 || len(rows) != len(labels) {
		return nil, fmt.Errorf("classifier: %d rows vs %d labels", len(rows), len(labels))
	}

	classSet := make(map[string]int)
	for _, l := range labels {
		classSet[l] = 0
	}
	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for i, c := range classes {
		classSet[c] = i
	}

	dim := len(rows[0])
	c := &SoftmaxClassifier{
		Classes: classes,
		Weights: make([][]float64, len(classes)),
		Bias:    make([]float64, len(classes)),
	}
	for k := range c.Weights {
		c.Weights[k] = make([]float64, dim)
	}

	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = classSet[l]
	}

	n := float64(len(rows))
	gradW := make([][]float64, len(classes))
	gradB := make([]float64, len(classes))
	for k := range gradW {
		gradW[k] = make([]float64, dim)
	}

	for epoch := 0; epoch < classifierEpochs; epoch++ {
		for k := range gradW {
			for j := range gradW[k] {
				gradW[k][j] = 0
			}
			gradB[k] = 0
		}

		for i, row := range rows {
			probs := c.probabilities(row)
			for k := range probs {
				delta := probs[k]
				if k == y[i] {
					delta -= 1
				}
				for j, v := range row {
					gradW[k][j] += delta * v
				}
				gradB[k] += delta
			}
		}

		for k := range c.Weights {
			for j := range c.Weights[k] {
				c.Weights[k][j] -= classifierRate * (gradW[k][j]/n + classifierL2*c.Weights[k][j])
			}
			c.Bias[k] -= classifierRate * gradB[k] / n
		}
	}

	return c, nil
}

// Predict returns the winning class and the full class distribution for one
// standardized vector. The distribution sums to 1 within floating tolerance.
func (c *SoftmaxClassifier) Predict(x []float64) (string, map[string]float64) {
	probs := c.probabilities(x)
	dist := make(map[string]float64, len(c.Classes))
	best := 0
	for k, p := range probs {
		dist[c.Classes[k]] = p
		if p > probs[best] {
			best = k
		}
	}
	return c.Classes[best], dist
}

// probabilities computes the softmax distribution with max-shift for
// numerical stability.
func (c *SoftmaxClassifier) probabilities(x []float64) []float64 {
	logits := make([]float64, len(c.Classes))
	maxLogit := math.Inf(-1)
	for k, w := range c.Weights {
		z := c.Bias[k]
		for j, v := range x {
			z += w[j] * v
		}
		logits[k] = z
		if z > maxLogit {
			maxLogit = z
		}
	}

	total := 0.0
	for k, z := range logits {
		logits[k] = math.Exp(z - maxLogit)
		total += logits[k]
	}
	for k := range logits {
		logits[k] /= total
	}
	return logits
}
