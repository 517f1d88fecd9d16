package infra

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/config"
	"github.com/lmittmann/tint"
)

func SetupLogger(cfg *config.Config) *slog.Logger {
	return NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// NewLogger builds a TEXT, JSON or TINT (colored console) logger
func NewLogger(w io.Writer, levelName, format string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(levelName) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToUpper(format) {
	case "JSON":
		handler = slog.NewJSONHandler(w, opts)
	case "TINT":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
