// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// New logs to stderr so generated documents on stdout stay clean.
func New(logFormat, logLevel string) *slog.Logger {
	return NewWithWriter(os.Stderr, logFormat, logLevel)
}

// NewWithWriter builds a logger and makes it the default one. Unknown
// formats fall back to json and unknown levels to info.
func NewWithWriter(w io.Writer, logFormat, logLevel string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(logLevel)}

	var handler slog.Handler

	switch strings.ToLower(logFormat) {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	return logger
}

func Level(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Valid reports whether format and level are both known.
func Valid(logFormat, logLevel string) bool {
	switch strings.ToLower(logFormat) {
	case FormatJSON, FormatText:
	default:
		return false
	}

	switch strings.ToLower(logLevel) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}
