package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Option customizes the logger built by New
type Option func(*options)

type options struct {
	writer io.Writer
	json   bool
}

// WithWriter sends log output to w instead of stderr
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithJSON switches the handler to JSON output
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// New builds a slog logger for the given level name
func New(level string, opts ...Option) *slog.Logger {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	writer := cfg.writer
	if writer == nil {
		writer = os.Stderr
	}

	handlerOptions := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(writer, handlerOptions)
	} else {
		handler = slog.NewTextHandler(writer, handlerOptions)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
