// Package logging builds the slog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ParseLevel maps debug|info|warn|error to a slog level. Unknown values are
// reported as an error and fall back to info.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FileName returns log-YYYYMMDDHHMMSS.log for the given time.
func FileName(now time.Time) string {
	return "log-" + now.Format("20060102150405") + ".log"
}

// Open returns a logger writing to stderr and, when dir is not empty, to a
// fresh timestamped log file inside dir. The returned close func flushes and
// closes that file and is never nil.
func Open(stderr io.Writer, dir string, level slog.Level, now time.Time) (*slog.Logger, string, func() error, error) {
	if dir == "" {
		return New(stderr, level), "", func() error { return nil }, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open log file: %w", err)
	}
	logger := New(io.MultiWriter(stderr, file), level)
	return logger, path, file.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
