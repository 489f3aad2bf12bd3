// Package logger holds the process-wide structured logger used by heapctl
// and, when nothing else is injected, by trackers.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It's initialized to discard all output by default.
// Call Init() to enable logging.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	logPrefix     = "heapctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	LogDir  string     // Directory for JSON log files. Empty logs text to Stderr instead.
	Level   slog.Level // Minimum log level
	Stderr  io.Writer  // Text sink when LogDir is empty. Default: os.Stderr
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("logger: unknown level %q", s)
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	if opts.LogDir == "" {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		L = slog.New(slog.NewTextHandler(w, handlerOpts))
		return nil
	}

	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		return err
	}

	// Clean up old logs (best-effort, ignore errors)
	cleanOldLogs(opts.LogDir)

	filename := filepath.Join(opts.LogDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	return nil
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// Parse date from filename: heapctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
