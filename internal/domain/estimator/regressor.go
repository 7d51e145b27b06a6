package estimator

import (
	"fmt"
)

// Regressor training hyperparameters.
const (
	regressorEpochs = 800
	regressorRate   = 0.05
	regressorL2     = 1e-3
)

// RidgeRegressor is a linear least-squares model with L2 regularization
// fitted by batch gradient descent on standardized features. Predictions are
// clipped to [0,1], the score-ratio range.
type RidgeRegressor struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// FitRegressor trains a regressor on standardized rows and targets in [0,1].
func FitRegressor(rows [][]float64, targets []float64) (*RidgeRegressor, error) {
	if len(rows) == 0 || len(rows) != len(targets) {
		return nil, fmt.Errorf("regressor: %d rows vs %d targets", len(rows), len(targets))
	}

	dim := len(rows[0])
	r := &RidgeRegressor{Weights: make([]float64, dim)}

	n := float64(len(rows))
	grad := make([]float64, dim)
	for epoch := 0; epoch < regressorEpochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		gradB := 0.0

		for i, row := range rows {
			delta := r.raw(row) - targets[i]
			for j, v := range row {
				grad[j] += delta * v
			}
			gradB += delta
		}

		for j := range r.Weights {
			r.Weights[j] -= regressorRate * (grad[j]/n + regressorL2*r.Weights[j])
		}
		r.Bias -= regressorRate * gradB / n
	}

	return r, nil
}

// Predict returns the clipped-to-[0,1] prediction for one standardized vector.
func (r *RidgeRegressor) Predict(x []float64) float64 {
	return clamp01(r.raw(x))
}

func (r *RidgeRegressor) raw(x []float64) float64 {
	z := r.Bias
	for j, v := range x {
		z += r.Weights[j] * v
	}
	return z
}
