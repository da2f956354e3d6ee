package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

// Setup configures the global logger from config values. Format "text"
// gets a tint handler for readable local output, anything else is JSON.
func Setup(level, format string) {
	lvl := parseLevel(level)

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}

	logger = slog.New(handler)
	logger.Debug("log level set", "level", lvl.String())
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a message at DEBUG level
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs a message at INFO level
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs a message at WARN level
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs a message at ERROR level
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}
