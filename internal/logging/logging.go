// Package logging provides structured logging for cfgsync.
//
// It wraps log/slog: JSON output for machines, text output for people, and
// default service and version fields on every record.
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("merged overlay", "keys", m.Len())
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"config-reconciler/internal/config"
)

// Logger wraps slog.Logger. It is safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to the destination named by cfg.Output.
func New(cfg config.LoggingConfig, version string) *Logger {
	return NewWriter(cfg, version, Destination(cfg.Output, os.Stdout, os.Stderr))
}

// Destination picks stdout for output "stdout" and stderr otherwise.
func Destination(output string, stdout, stderr io.Writer) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return stdout
	}

	return stderr
}

// NewWriter creates a Logger writing to w.
func NewWriter(cfg config.LoggingConfig, version string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "cfgsync"),
		slog.String("version", version),
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// parseLevel converts a level name to slog.Level; unknown names map to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a new Logger with additional default attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Default creates a logger for use before configuration is loaded:
// text on stderr at info level.
func Default() *Logger {
	return New(config.Default().Logging, "dev")
}
