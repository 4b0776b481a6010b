package services_test

import (
	"io"
	"os"
	"testing"

	"github.com/api-sage/treasury-engine/src/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}
