package logger

import (
	"log/slog"
	"os"
	"strings"
)

var (
	// Logger is the global slog logger instance. It falls back to the slog
	// default until Init runs so packages can log from tests.
	Logger = slog.Default()
)

// ParseLevel maps debug, info, warn or error to a slog level. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Init initializes the global logger from the LOG_LEVEL environment variable
func Init() {
	InitLevel(os.Getenv("LOG_LEVEL"))
}

// InitLevel installs a JSON logger on stdout at the named level
func InitLevel(level string) {
	if level == "" {
		level = "info"
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	Logger.Debug("Logger initialized", "level", level)
}

// With returns a child logger tagged with a component name
func With(component string) *slog.Logger {
	return Logger.With("component", component)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
