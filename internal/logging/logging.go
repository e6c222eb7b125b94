package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. DEV gets a console writer,
// every other environment writes JSON to stdout.
func Init(level, env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(env, "DEV") {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}
	zerolog.SetGlobalLevel(ParseLevel(level))
	logger := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// ParseLevel falls back to info on unknown input.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
