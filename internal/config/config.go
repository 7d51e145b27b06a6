// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layered loading lives in Load (defaults -> optional file -> env).
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ArtifactPath locates the bbolt file holding trained model artifacts.
	ArtifactPath string `koanf:"artifact_path"`

	// AttemptDBPath locates the sqlite file holding attempt records.
	AttemptDBPath string `koanf:"attempt_db_path"`

	// BatchWorkerCount sets the number of batch orchestrator workers.
	BatchWorkerCount int `koanf:"batch_worker_count"`

	// VectorCacheSize bounds the extraction vector cache. Zero disables caching.
	VectorCacheSize int `koanf:"vector_cache_size"`

	// MinTrainingSamples is the default training floor for the difficulty
	// classifier and score regressor.
	MinTrainingSamples int `koanf:"min_training_samples"`

	// MinClusteringSamples is the default training floor for the
	// comprehension clusterer.
	MinClusteringSamples int `koanf:"min_clustering_samples"`

	// MinAttempts is the default attempt floor for performance aggregation.
	MinAttempts int `koanf:"min_attempts"`

	// ClusterCount sets K for the comprehension clusterer, valid 2..8.
	ClusterCount int `koanf:"cluster_count"`

	// PassThreshold is the score ratio counted as a pass, in (0,1).
	PassThreshold float64 `koanf:"pass_threshold"`
}

// Default configuration bounds.
const (
	minClusterCount = 2
	maxClusterCount = 8
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		ArtifactPath:         "acumen-models.db",
		AttemptDBPath:        "acumen-attempts.db",
		BatchWorkerCount:     runtime.NumCPU() * 2,
		VectorCacheSize:      10_000,
		MinTrainingSamples:   10,
		MinClusteringSamples: 20,
		MinAttempts:          10,
		ClusterCount:         5,
		PassThreshold:        0.6,
	}
}
