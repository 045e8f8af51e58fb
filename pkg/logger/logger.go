// Package logger wraps log/slog with the level/format switches and field
// helpers used across the service.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Level  string
	Format string // "json" or "text"
}

type Logger struct {
	logger *slog.Logger
}

func New(cfg Config) *Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg Config, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{logger: slog.New(handler)}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With(key, value)}
}

func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs msg at error level, attaching err under the "error" key when set.
func (l *Logger) Error(err error, msg string, args ...any) {
	if err != nil {
		args = append(args, "error", err)
	}
	l.logger.Error(msg, args...)
}

func (l *Logger) Fatal(err error, msg string, args ...any) {
	l.Error(err, msg, args...)
	os.Exit(1)
}

// Slog exposes the underlying *slog.Logger for libraries that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

var defaultLogger = New(Config{Level: "info", Format: "text"})

// Init replaces the package-level logger.
func Init(cfg Config) *Logger {
	defaultLogger = New(cfg)
	slog.SetDefault(defaultLogger.logger)
	return defaultLogger
}

func Default() *Logger { return defaultLogger }

func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

func Error(err error, msg string, args ...any) { defaultLogger.Error(err, msg, args...) }

func Fatal(err error, msg string, args ...any) { defaultLogger.Fatal(err, msg, args...) }

func WithField(key string, value any) *Logger { return defaultLogger.WithField(key, value) }
