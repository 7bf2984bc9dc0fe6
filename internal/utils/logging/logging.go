// Package logging provides leveled console logging helpers.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is the debug verbosity. D calls above this level are dropped.
var Level int

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
	With().
	Timestamp().
	Logger()

// I logs an informational message.
func I(format string, args ...any) {
	log.Info().Msgf(format, args...)
}

// S logs a success message.
func S(format string, args ...any) {
	log.Info().Str("outcome", "success").Msgf(format, args...)
}

// W logs a warning message.
func W(format string, args ...any) {
	log.Warn().Msgf(format, args...)
}

// E logs an error message.
func E(format string, args ...any) {
	log.Error().Msgf(format, args...)
}

// D logs a debug message when the verbosity level is at least l.
func D(l int, format string, args ...any) {
	if l > Level {
		return
	}
	log.Debug().Msgf(format, args...)
}
