package estimator

import (
	"fmt"
	"math"
	"math/rand"
)

// Clustering constants.
const (
	kmeansMaxIterations = 100
	kmeansTolerance     = 1e-6

	// MinClusters and MaxClusters bound the valid K range.
	MinClusters = 2
	MaxClusters = 8
)

// KMeans is a fixed-K Lloyd's clusterer over standardized features.
// Initial centroids are distinct examples chosen by a seeded rng, so fitting
// the same data always produces the same partition.
type KMeans struct {
	K         int         `json:"k"`
	Centroids [][]float64 `json:"centroids"`
}

// FitKMeans clusters standardized rows into k groups.
func FitKMeans(rows [][]float64, k int) (*KMeans, error) {
	if k < MinClusters || k > MaxClusters {
		return nil, fmt.Errorf("kmeans: k %d outside [%d,%d]", k, MinClusters, MaxClusters)
	}
	if len(rows) < k {
		return nil, fmt.Errorf("kmeans: %d rows for k=%d", len(rows), k)
	}

	rng := rand.New(rand.NewSource(Seed)) //nolint:gosec // deterministic init, not crypto
	m := &KMeans{K: k, Centroids: make([][]float64, k)}
	for i, idx := range rng.Perm(len(rows))[:k] {
		m.Centroids[i] = append([]float64{}, rows[idx]...)
	}

	assignments := make([]int, len(rows))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		for i, row := range rows {
			assignments[i], _ = m.nearest(row)
		}

		moved := 0.0
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, len(rows[0]))
		}
		for i, row := range rows {
			c := assignments[i]
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}
		for c := range m.Centroids {
			if counts[c] == 0 {
				// Empty cluster keeps its centroid; with seeded init and
				// standardized data this is rare but must not divide by zero.
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			moved += distance(m.Centroids[c], sums[c])
			m.Centroids[c] = sums[c]
		}

		if moved < kmeansTolerance {
			break
		}
	}

	return m, nil
}

// Assign returns the nearest cluster for one standardized vector along with
// the distance to its centroid and the distances to all centroids.
func (m *KMeans) Assign(x []float64) (cluster int, dist float64, all []float64) {
	all = make([]float64, m.K)
	for c, centroid := range m.Centroids {
		all[c] = distance(x, centroid)
	}
	cluster = 0
	for c, d := range all {
		if d < all[cluster] {
			cluster = c
		}
	}
	return cluster, all[cluster], all
}

// Confidence converts a centroid distance into (0,1]: 1/(1+d).
func Confidence(dist float64) float64 {
	return 1 / (1 + dist)
}

func (m *KMeans) nearest(x []float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range m.Centroids {
		if d := distance(x, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func distance(a, b []float64) float64 {
	total := 0.0
	for j := range a {
		d := a[j] - b[j]
		total += d * d
	}
	return math.Sqrt(total)
}
