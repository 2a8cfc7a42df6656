// Package logger configures the process-wide slog logger: JSON lines in
// production so the hosting platform can ingest them, readable text during
// development.
package logger

import (
	"log/slog"
	"os"
)

// Log is the shared logger. It starts as slog's default so anything that
// logs before Setup runs (tests, early startup failures) still prints.
var Log = slog.Default()

// Setup installs the logger for the given environment. Development runs at
// debug level.
func Setup(env string) {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Package-level helpers so call sites stay short.

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
