// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the level, encoding and destination of log output.
type Config struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// New builds a logger from cfg. When cfg.File is empty, output goes to
// fallback; a nil fallback discards everything. The returned closer releases
// the log file, if one was opened.
func New(cfg Config, fallback io.Writer) (zerolog.Logger, func(), error) {
	closer := func() {}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("parse log level: %w", err)
	}

	var writer io.Writer = io.Discard
	if fallback != nil {
		writer = fallback
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	if cfg.Format == "console" && writer != io.Discard {
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: cfg.File != ""}
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}

// Setup installs a logger built from cfg as the global logger.
func Setup(cfg Config, fallback io.Writer) (func(), error) {
	l, closer, err := New(cfg, fallback)
	if err != nil {
		return closer, err
	}
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return closer, nil
}

// Component creates a new logger with a component identifier.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Stderr is the usual fallback for non-interactive commands.
func Stderr() io.Writer {
	return os.Stderr
}
