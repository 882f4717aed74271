package config

import (
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// TestMain refuses to run outside GO_ENV=test since ConnectDatabase honours DATABASE_URL.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests require GO_ENV=test (got %q); run `GO_ENV=test go test ./...`\n", env)
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}
