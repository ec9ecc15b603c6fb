package ipcbench

import (
	"log/slog"
	"os"
	"strings"
)

func BuildLogger(cfg LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	hOpts := &slog.HandlerOptions{Level: level}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, hOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, hOpts))
}
