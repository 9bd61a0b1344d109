// Package observability owns logging and metrics wiring.
package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "ROOMSYNC_LOG_LEVEL"
	EnvLogTimestamp = "ROOMSYNC_LOG_TIMESTAMP"
	EnvLogNoColor   = "ROOMSYNC_LOG_NOCOLOR"
)

// InitLogger builds the process logger and installs it as the global
// default. Env overrides beat the built-in defaults.
func InitLogger(app string) zerolog.Logger {
	level := zerolog.InfoLevel
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		output.NoColor = v
	}

	ctx := zerolog.New(output).Level(level).With().Str("app", app)
	timestamp := true
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		timestamp = v
	}
	if timestamp {
		ctx = ctx.Timestamp()
	}

	logger := ctx.Logger()
	log.Logger = logger
	return logger
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
