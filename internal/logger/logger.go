// Package logger holds the process-wide structured logger used by romkit.
//
// Library code logs through the package helpers. Output is discarded until
// a program calls Init.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// L is the global logger instance. It discards all output by default.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	File    string     // Log file path; empty logs text to Stderr
	Level   slog.Level // Minimum log level
}

// Init configures logging. Call from main() before any log calls.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.File == "" {
		L = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	return nil
}

// SetOutput directs text logs at the given level to w. Tests use it to
// capture log lines.
func SetOutput(w io.Writer, level slog.Level) {
	L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
