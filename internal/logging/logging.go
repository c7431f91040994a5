// Package logging sets up the shared slog JSON logger used by every Lambda
// entrypoint.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Level returns the log level named by the LOG_LEVEL environment variable.
// Unset or unrecognized values default to Info.
func Level() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a JSON logger writing to stdout at the configured level and
// installs it as the slog default.
func New() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: Level(),
	}))
	slog.SetDefault(logger)
	return logger
}
