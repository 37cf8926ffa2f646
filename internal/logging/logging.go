// Package logging builds the zerolog logger shared by every command:
// a console writer on stderr plus an optional lumberjack-rotated file.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"github.com/fenilsonani/diskscope/internal/config"
)

// New returns a logger for cfg writing human-readable lines to console.
// When file logging is enabled the same events are also written as JSON
// to a rotating file.
func New(cfg config.LogConfig, console io.Writer, verbose bool) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{
		zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = console
			w.TimeFormat = time.Kitchen
		}),
	}

	if cfg.EnableFile {
		if cfg.FilePath == "" {
			return zerolog.Nop(), fmt.Errorf("log file path must be set when file logging is enabled")
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}

	return zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// ParseLevel maps a config level name to a zerolog level. Empty means warn.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.WarnLevel, nil
	}

	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// WithRun tags logger with a fresh run id and the command name, and
// stores it in ctx so components can fetch it with zerolog.Ctx.
func WithRun(ctx context.Context, logger zerolog.Logger, command string) (context.Context, zerolog.Logger) {
	runLogger := logger.With().
		Str("run_id", uuid.NewString()).
		Str("command", command).
		Logger()

	return runLogger.WithContext(ctx), runLogger
}
