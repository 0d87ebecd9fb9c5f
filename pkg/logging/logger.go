// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs every request and page.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs run progress.
	LevelInfo LogLevel = "info"

	// LevelWarn logs skipped enumerations and failed requests.
	LevelWarn LogLevel = "warn"

	// LevelError logs aborted runs only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// NoColor disables colors in pretty output.
	NoColor bool

	// Output is the writer to output logs to (default: os.Stderr).
	// Crawl records go to stdout, so logs must not.
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// ParseLevel validates a level name. An empty name means info.
func ParseLevel(name string) (LogLevel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return LevelInfo, nil
	}
	if name == "warning" {
		name = "warn"
	}
	switch LogLevel(name) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return LogLevel(name), nil
	}
	return "", fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(toZerolog(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			NoColor:    cfg.NoColor,
			TimeFormat: time.TimeOnly,
		}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// toZerolog converts LogLevel to zerolog.Level, defaulting to info.
func toZerolog(level LogLevel) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(string(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: per-request detail
//   - Request URLs and durations
//   - Page numbers, item counts and next links
//   - Content items as they are processed
//
// Info: run progress
//   - Crawl start with media types and page size
//   - Each further page of contents
//   - Run summary
//
// Warn: recoverable problems
//   - Failed requests (with error class)
//   - Enumerations skipped under continue-on-error
//   - Page limit reached
//
// Error: the run was aborted
//
// Context Fields:
//   - component: http-client, walker, crawler, cli
//   - run_id: UUID of the crawl run
//   - collection: content or attachment
//   - url: request URL
//   - page: 1-based page number within a walk
//   - content_id, media_type: enumeration being processed
//   - error_class: client, server, network, decode
