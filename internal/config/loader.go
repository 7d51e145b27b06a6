package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if ACUMEN_CONFIG is set
//  3. env (prefix ACUMEN_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ACUMEN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ACUMEN_LOG_LEVEL, ACUMEN_CLUSTER_COUNT, ...
	// Map env keys like ACUMEN_CLUSTER_COUNT -> cluster_count (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ACUMEN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "acumen_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the invariants downstream components assume.
func (c *Config) validate() error {
	if c.ArtifactPath == "" {
		return fmt.Errorf("%w: artifact_path must not be empty", ErrInvalidConfig)
	}
	if c.AttemptDBPath == "" {
		return fmt.Errorf("%w: attempt_db_path must not be empty", ErrInvalidConfig)
	}
	if c.BatchWorkerCount < 1 {
		return fmt.Errorf("%w: batch_worker_count must be positive", ErrInvalidConfig)
	}
	if c.ClusterCount < minClusterCount || c.ClusterCount > maxClusterCount {
		return fmt.Errorf("%w: cluster_count must be in [%d,%d]", ErrInvalidConfig, minClusterCount, maxClusterCount)
	}
	if c.PassThreshold <= 0 || c.PassThreshold >= 1 {
		return fmt.Errorf("%w: pass_threshold must be in (0,1)", ErrInvalidConfig)
	}
	if c.MinTrainingSamples < 1 || c.MinClusteringSamples < 1 || c.MinAttempts < 1 {
		return fmt.Errorf("%w: sample minimums must be positive", ErrInvalidConfig)
	}
	return nil
}
