// Package logging configures zerolog for evdispatch binaries and hands out
// component-scoped loggers to library code.
package logging

import (
	"io"
	stdLog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// init hides logs emitted before the CLI configures logging.
func init() {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
}

// Format selects the log encoding.
type Format string

const (
	// FormatText writes human readable console output.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// ConfigureGlobalLogging points the global zerolog logger and the standard
// library logger at w with the given level and format.
func ConfigureGlobalLogging(levelStr string, format Format, w io.Writer) zerolog.Logger {
	level := ParseLevel(levelStr)
	ConfigureGlobal(level)

	if w == nil {
		w = os.Stderr
	}
	if format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logContext := zerolog.New(w).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}

	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	stdLog.SetFlags(0)
	stdLog.SetOutput(log.Logger.With().Str("source", "stdlog").Logger())

	return log.Logger
}

// ConfigureGlobal sets the global minimum level.
func ConfigureGlobal(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// ParseLevel converts a level name to zerolog.Level, falling back to error
// for empty or unknown names.
func ParseLevel(levelString string) zerolog.Level {
	if levelString == "" {
		return zerolog.ErrorLevel
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelString))
	if err != nil {
		log.Error().Err(err).
			Str("logLevel", levelString).
			Msg("Invalid log level provided. Defaulting to error level.")
		return zerolog.ErrorLevel
	}
	return level
}

// NewLogger returns a logger tagged with component, derived from the global logger.
func NewLogger(component string, level zerolog.Level) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger().Level(level)
}

// NewLoggerWithWriter returns a JSON logger writing to w, tagged with component.
func NewLoggerWithWriter(component string, level zerolog.Level, w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger().Level(level)
}
