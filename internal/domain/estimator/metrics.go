package estimator

import (
	"math"
)

// Evaluation metrics for held-out partitions. Classification metrics are
// macro-averaged over classes; R² can go negative for models worse than the
// mean predictor, which callers must treat as a documented range.

// Accuracy is the fraction of exact label matches.
func Accuracy(predicted, actual []string) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return 0
	}
	hits := 0
	for i, p := range predicted {
		if p == actual[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(predicted))
}

// MacroPRF computes macro-averaged precision, recall and F1 over the classes
// present in actual.
func MacroPRF(predicted, actual []string) (precision, recall, f1 float64) {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return 0, 0, 0
	}

	classes := make(map[string]struct{})
	for _, a := range actual {
		classes[a] = struct{}{}
	}

	var pSum, rSum, fSum float64
	for class := range classes {
		var tp, fp, fn float64
		for i := range actual {
			switch {
			case predicted[i] == class && actual[i] == class:
				tp++
			case predicted[i] == class:
				fp++
			case actual[i] == class:
				fn++
			}
		}
		var p, r float64
		if tp+fp > 0 {
			p = tp / (tp + fp)
		}
		if tp+fn > 0 {
			r = tp / (tp + fn)
		}
		pSum += p
		rSum += r
		if p+r > 0 {
			fSum += 2 * p * r / (p + r)
		}
	}

	n := float64(len(classes))
	return pSum / n, rSum / n, fSum / n
}

// RSquared is the coefficient of determination. Returns 1 for a perfect fit
// of constant targets, since the residual is zero.
func RSquared(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return 0
	}
	m := 0.0
	for _, a := range actual {
		m += a
	}
	m /= float64(len(actual))

	var ssRes, ssTot float64
	for i, a := range actual {
		ssRes += (a - predicted[i]) * (a - predicted[i])
		ssTot += (a - m) * (a - m)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// MeanAbsoluteError is the mean of absolute residuals.
func MeanAbsoluteError(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return 0
	}
	total := 0.0
	for i, a := range actual {
		total += math.Abs(a - predicted[i])
	}
	return total / float64(len(predicted))
}

// Cohesion scores a clustering in (0,1]: the mean of 1/(1+d) over each row's
// distance to its assigned centroid. Tighter clusters score higher.
func Cohesion(m *KMeans, rows [][]float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range rows {
		_, d, _ := m.Assign(row)
		total += Confidence(d)
	}
	return total / float64(len(rows))
}
