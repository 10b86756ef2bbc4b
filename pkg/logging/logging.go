// Package logging builds the process-wide slog logger. Diagnostics go to
// stderr so stdout stays clean for command output and streamed records.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a slog.Logger based on LOG_LEVEL. Unknown level strings
// fall back to INFO.
func NewLogger(levelString string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(strings.TrimSpace(levelString)) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
