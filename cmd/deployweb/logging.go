package main

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/input-output-hk/catalyst-forge-deploy/config"
)

// newLogger returns a slog.Logger backed by charmbracelet/log.
// An unknown level falls back to info.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	opts := log.Options{
		Level:           lvl,
		Prefix:          config.AppName,
		ReportTimestamp: true,
	}
	if format == config.LogFormatJSON {
		opts.Formatter = log.JSONFormatter
	}

	return slog.New(log.NewWithOptions(w, opts))
}
