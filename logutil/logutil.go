package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// OrDefault returns logger, or slog.Default() when logger is nil.
func OrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTimingLogger returns a closure that logs a debug message with duration when called.
func NewTimingLogger(logger *slog.Logger, start time.Time, msg string, initialFields ...any) func() {
	return func() {
		elapsed := time.Since(start)
		finalFields := append(initialFields, "duration", elapsed.String())
		logger.Debug(msg, finalFields...)
	}
}

// LogAndWrapErr logs an error with context fields and wraps it with a message.
// errors.Is / errors.As still see the original error.
func LogAndWrapErr(logger *slog.Logger, msg string, err error, fields ...any) error {
	if err == nil {
		return nil
	}
	allFields := append(fields, "err", err)
	logger.Error(msg, allFields...)
	return fmt.Errorf("%s: %w", msg, err)
}

// DebugAndWrapErr is LogAndWrapErr at debug level.
func DebugAndWrapErr(logger *slog.Logger, msg string, err error, fields ...any) error {
	if err == nil {
		return nil
	}
	allFields := append(fields, "err", err)
	logger.Debug(msg, allFields...)
	return fmt.Errorf("%s: %w", msg, err)
}
