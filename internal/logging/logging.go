// Package logging configures the process-wide slog logger. Diagnostics go to
// stderr so they never mix with the event output on stdout.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New builds a logger writing to w. JSON output suits `evlog serve` under a
// supervisor; text output suits an interactive terminal.
func New(w io.Writer, jsonOutput bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init creates and sets the package-level default slog logger.
func Init(w io.Writer, jsonOutput bool, level slog.Level) {
	slog.SetDefault(New(w, jsonOutput, level))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// Unknown strings default to LevelWarn, evlog's quiet default.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
