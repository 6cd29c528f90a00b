// Package logger configures the process-wide log/slog logger.
// JSON output with source locations is the default so that logs stay
// machine-parseable; a text format is available for local runs.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Setup initializes the global slog logger writing to stdout.
func Setup(level slog.Level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger for w. Unknown formats fall back to JSON.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}

	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel converts a string log level to slog.Level.
// Valid values: "debug", "info", "warn", "error".
// Unrecognized values default to info level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
