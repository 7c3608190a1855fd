package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cornish/jotpad/config"
)

// parseLevel maps a level name to its slog level. An empty name is info.
func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// newLogger builds the diagnostic logger. Flags win over the [log] config
// section. With no file configured the logger discards everything, since
// stderr belongs to the terminal UI. The caller closes the returned file.
func newLogger(flagPath, flagLevel string, cfg *config.Config) (*slog.Logger, io.Closer, error) {
	path, levelName := flagPath, flagLevel
	if cfg != nil {
		if path == "" {
			path = cfg.Log.File
		}
		if levelName == "" {
			levelName = cfg.Log.Level
		}
	}
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(h), f, nil
}
