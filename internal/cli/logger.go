package cli

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// newLogger builds a colorized structured logger writing to w.
func newLogger(w io.Writer, level string, noColor bool) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:   logLevel,
		NoColor: noColor,
	}))
}
