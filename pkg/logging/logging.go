// Package logging builds the slog handlers used by the dbnread tools.
//
// Output always goes to a text handler on the given writer. When a log file
// is configured, a JSON handler writing to that file is fanned out next to it.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Options selects the level and destinations of the logger.
type Options struct {
	Level string
	File  string
}

// ParseLevel maps a level name to a slog.Level. The empty string means info.
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
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger writing text to w and, if opts.File is set, JSON to
// that file. The returned close function releases the file.
func New(w io.Writer, opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(w, hopts)

	if opts.File == "" {
		return slog.New(text), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slogmulti.Fanout(
		text,
		slog.NewJSONHandler(f, hopts),
	))
	return logger, f.Close, nil
}

// Setup builds a logger on stderr and installs it as the slog default.
func Setup(opts Options) (func() error, error) {
	logger, closer, err := New(os.Stderr, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}
