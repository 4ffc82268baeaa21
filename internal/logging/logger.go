package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the slog JSON logger shared by the server and its
// sessions. One logger instance is created at startup and handed down
// explicitly; sessions attach rider_id/session_id fields per call, so
// the handler itself stays stateless.
func NewLogger(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	})
	return slog.New(handler)
}

// parseLevel maps the LOG_LEVEL config value onto a slog level,
// accepting the "warning" spelling and falling back to info for
// anything unrecognized.
func parseLevel(level string) slog.Level {
	s := strings.ToLower(strings.TrimSpace(level))
	if s == "warning" {
		s = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
