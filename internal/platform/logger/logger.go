// Package logger builds the registry's process-wide structured logger.
// Output is JSON on stdout; request-scoped fields (record_id, request_id,
// party) are attached at call sites, not here.
package logger

import (
	"log/slog"
	"os"
)

// New returns the registry logger. LOG_LEVEL selects the minimum level
// (debug, info, warn, error); unset or unrecognized values mean info.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	return slog.New(handler)
}

func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
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
