// Package logging configures the process-wide charmbracelet/log logger and
// hands out per-module children.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Setup builds the root logger from a level and format name and installs it
// as the default. Unknown names fall back to info and text.
func Setup(level, format string) *log.Logger {
	return SetupWriter(os.Stderr, level, format)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level, format string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       ParseFormatter(format),
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	return logger
}

// For returns a child of the default logger prefixed with the module name.
func For(module string) *log.Logger {
	return log.Default().WithPrefix(module)
}

// ParseLevel maps a level name to a charmbracelet/log level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a format name to a charmbracelet/log formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
