package seed_test

import (
	"os"
	"testing"

	"github.com/mindora/acumen/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}
