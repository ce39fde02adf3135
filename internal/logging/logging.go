// Package logging builds the host's file logger. stdout carries the wire
// protocol, so diagnostics always go to an append-only log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPath returns the default log file location:
// $XDG_STATE_HOME/tabtime/tabtime.log or ~/.local/state/tabtime/tabtime.log.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "tabtime", "tabtime.log"), nil
}

// New opens path for appending and returns a logger writing to it. The
// returned closer owns the file handle. With verbose, debug records are
// kept.
func New(path string, verbose bool) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, f, nil
}
