// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"

	"pns/internal/platform/config"
)

// New returns a JSON or text logger on stdout at the configured level.
func New(cfg config.Log) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New writing to w.
func NewWithWriter(cfg config.Log, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", "pns")
}
