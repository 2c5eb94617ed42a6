// Package logging builds the charmbracelet/log logger shared by the CLI,
// the model and the terminal view.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a config string to a log level. Unknown values yield warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// New returns a logger writing to w with the "todos" prefix.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:  ParseLevel(level),
		Prefix: "todos",
	})
}

// NewNop returns a logger that drops everything.
func NewNop() *log.Logger {
	return log.New(io.Discard)
}

// Open returns a logger for file, or for fallback when file is empty.
// The returned closer must be called once logging is done.
func Open(file, level string, fallback io.Writer) (*log.Logger, io.Closer, error) {
	if file == "" {
		return New(fallback, level), nopCloser{}, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l := log.NewWithOptions(f, log.Options{
		Level:           ParseLevel(level),
		Prefix:          "todos",
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
	return l, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
