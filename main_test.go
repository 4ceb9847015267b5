package lz4pack

import (
	"os"
	"testing"

	"github.com/go-faster/lz4pack/internal/gold"
)

func TestMain(m *testing.M) {
	// Explicitly registering flags for golden files.
	gold.Init()

	os.Exit(m.Run())
}
