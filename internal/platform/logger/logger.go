package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. Text output locally, JSON when
// REFUGEFLOW_LOG_FORMAT=json (the deployment default).
func New() *slog.Logger {
	if os.Getenv("REFUGEFLOW_LOG_FORMAT") == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
