package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/mindora/acumen/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.ArtifactPath, convey.ShouldEqual, "acumen-models.db")
			convey.So(cfg.AttemptDBPath, convey.ShouldEqual, "acumen-attempts.db")
			convey.So(cfg.BatchWorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.VectorCacheSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MinTrainingSamples, convey.ShouldEqual, 10)
			convey.So(cfg.MinClusteringSamples, convey.ShouldEqual, 20)
			convey.So(cfg.MinAttempts, convey.ShouldEqual, 10)
			convey.So(cfg.ClusterCount, convey.ShouldEqual, 5)
			convey.So(cfg.PassThreshold, convey.ShouldAlmostEqual, 0.6)
		})
	})
}

func TestConfig_LoadDefaults(t *testing.T) {
	convey.Convey("Given no overrides, loading returns the defaults", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.ClusterCount, convey.ShouldEqual, 5)
		convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
	})
}

func TestConfig_LoadEnv(t *testing.T) {
	t.Setenv("ACUMEN_LOG_LEVEL", "debug")
	t.Setenv("ACUMEN_CLUSTER_COUNT", "3")
	t.Setenv("ACUMEN_PASS_THRESHOLD", "0.7")

	convey.Convey("Given environment overrides, loading applies them", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
		convey.So(cfg.ClusterCount, convey.ShouldEqual, 3)
		convey.So(cfg.PassThreshold, convey.ShouldAlmostEqual, 0.7)
	})
}

func TestConfig_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acumen.yaml")
	yaml := "cluster_count: 4\nmin_attempts: 25\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACUMEN_CONFIG", path)

	convey.Convey("Given a config file, its values layer over defaults", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.ClusterCount, convey.ShouldEqual, 4)
		convey.So(cfg.MinAttempts, convey.ShouldEqual, 25)
		convey.So(cfg.MinTrainingSamples, convey.ShouldEqual, 10)
	})
}

func TestConfig_EnvOutranksFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acumen.yaml")
	if err := os.WriteFile(path, []byte("cluster_count: 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACUMEN_CONFIG", path)
	t.Setenv("ACUMEN_CLUSTER_COUNT", "6")

	convey.Convey("Given both a file and an env var, the env var wins", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.ClusterCount, convey.ShouldEqual, 6)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("cluster count out of range", func(t *testing.T) {
		t.Setenv("ACUMEN_CLUSTER_COUNT", "99")
		convey.Convey("Loading fails validation", t, func() {
			_, err := config.Load(context.Background())
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
		})
	})

	t.Run("pass threshold not a proper fraction", func(t *testing.T) {
		t.Setenv("ACUMEN_PASS_THRESHOLD", "1.5")
		convey.Convey("Loading fails validation", t, func() {
			_, err := config.Load(context.Background())
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
		})
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("ACUMEN_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
		convey.Convey("Loading fails with a load error", t, func() {
			_, err := config.Load(context.Background())
			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})
	})
}
