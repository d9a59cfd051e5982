// internal/util/logger.go
package util

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

var logger *slog.Logger

// InitLogger initializes the global structured logger.
// Production (LOG_ENV unset or "production") gets JSON logs; anything else
// gets a colored tint handler for local development.
func InitLogger() {
	level := levelFromEnv()

	var handler slog.Handler
	if env := os.Getenv("LOG_ENV"); env != "" && env != "production" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:     level,
			AddSource: true,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		})
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// GetLogger returns the initialized global logger.
func GetLogger() *slog.Logger {
	if logger == nil {
		InitLogger() // Initialize if not already initialized (should be called explicitly at app start)
	}
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
