// Package logging builds the charmbracelet/log logger used by the CLI and
// carries it through a context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Config configures New.
type Config struct {
	// Level is one of debug, info, warn or error.
	Level  string
	Output io.Writer
	JSON   bool
	// ReportTimestamp prefixes every line with the time.
	ReportTimestamp bool
}

// ParseLevel converts a config level name. Unknown names are an error.
func ParseLevel(s string) (log.Level, error) {
	switch s {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", s)
}

// New returns a logger for cfg, writing to stderr by default.
func New(cfg Config) (*log.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: cfg.ReportTimestamp,
		TimeFormat:      "15:04:05",
		Prefix:          "changelog",
	})
	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// DebugSink adapts logger to the printf-style debug hooks of other packages.
func DebugSink(logger *log.Logger) func(format string, args ...any) {
	return func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

type ctxKey struct{}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, or a discarding logger.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Discard()
}
