// Package logging builds the zerolog logger shared by the gateway and the
// services.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/riskboard/internal/config"
)

// Options selects the logger output.
type Options struct {
	Env   string
	Level string
	// File receives the logs when set. Otherwise they go to Fallback.
	File string
	// Fallback is used when File is empty. The TUI passes io.Discard so log
	// lines never tear the screen.
	Fallback io.Writer
}

// FromConfig derives options from cfg.
func FromConfig(cfg *config.Config, fallback io.Writer) Options {
	return Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile, Fallback: fallback}
}

// New returns a logger and a function that releases its output.
func New(opts Options) (zerolog.Logger, func() error, error) {
	closeFn := func() error { return nil }

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var w io.Writer = opts.Fallback
	if w == nil {
		w = os.Stderr
	}
	toFile := opts.File != ""
	if toFile {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	switch opts.Env {
	case config.EnvLocal:
		cw := zerolog.NewConsoleWriter()
		cw.TimeFormat = time.DateTime
		cw.Out = w
		cw.NoColor = toFile
		w = cw
	case config.EnvDev:
		if opts.Level == "" {
			level = zerolog.DebugLevel
		}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	return logger, closeFn, nil
}
