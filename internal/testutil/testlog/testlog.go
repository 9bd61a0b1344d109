// Package testlog routes log output through the test runner.
package testlog

import (
	"testing"

	"github.com/rs/zerolog"
)

// Start returns a logger scoped to t. Output shows up only when the
// test fails or -v is set.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).With().Str("test", t.Name()).Logger()
}
