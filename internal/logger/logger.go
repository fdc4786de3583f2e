// Package logger configures structured logging for the mcp-browser-use
// service. The MCP stdio transport owns stdout for protocol frames, so all
// log output is routed to stderr or a file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format defines how log records are rendered
type Format int

// Log format constants
const (
	TEXT Format = iota
	JSON
)

// Config holds configuration options for the logger
type Config struct {
	Level       slog.Level
	Format      Format
	Output      io.Writer
	ServiceName string
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:       slog.LevelInfo,
		Format:      TEXT,
		Output:      os.Stderr,
		ServiceName: "mcp-browser-use",
	}
}

// New creates a new slog.Logger with the given configuration.
func New(config *Config) *slog.Logger {
	if config == nil {
		config = DefaultConfig()
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	// Never log to stdout: it would corrupt the MCP stdio stream.
	if out == os.Stdout {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level}

	var handler slog.Handler
	if config.Format == JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	log := slog.New(handler)
	if config.ServiceName != "" {
		log = log.With("service", config.ServiceName)
	}
	return log
}

// Setup builds a logger from level/format strings, installs it as the
// process-wide slog default, and returns it.
func Setup(level, format string) *slog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.Format = ParseFormat(format)

	log := New(cfg)
	slog.SetDefault(log)
	return log
}

// ParseLevel converts a string level to a slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts a string format to a Format
func ParseFormat(format string) Format {
	if strings.EqualFold(format, "json") {
		return JSON
	}
	return TEXT
}

// Fatal logs a message at ERROR level and exits with status code 1
func Fatal(log *slog.Logger, msg string, args ...any) {
	if log == nil {
		log = slog.Default()
	}
	log.Error(msg, args...)
	os.Exit(1)
}
