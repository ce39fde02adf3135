// Package config loads tabtime settings from the user's config file and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable tabtime settings.
type Config struct {
	DataDir string `json:"data_dir"` // session storage directory override
	LogFile string `json:"log_file"` // host log file override
	Verbose bool   `json:"verbose"`  // debug-level logging
}

// Defaults returns the default configuration. Empty path fields mean the
// XDG-derived locations are resolved at use time.
func Defaults() Config {
	return Config{}
}

// LoadGlobal reads ~/.config/tabtime/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "tabtime", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d := Defaults()
			return &d, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge layers the file config over defaults, then environment variables
// over both. TABTIME_DATA_DIR, TABTIME_LOG_FILE and TABTIME_VERBOSE take
// precedence over the config file.
func Merge(global *Config) Config {
	result := Defaults()

	if global != nil {
		if global.DataDir != "" {
			result.DataDir = global.DataDir
		}
		if global.LogFile != "" {
			result.LogFile = global.LogFile
		}
		if global.Verbose {
			result.Verbose = true
		}
	}

	if v := os.Getenv("TABTIME_DATA_DIR"); v != "" {
		result.DataDir = v
	}
	if v := os.Getenv("TABTIME_LOG_FILE"); v != "" {
		result.LogFile = v
	}
	if v := os.Getenv("TABTIME_VERBOSE"); v == "1" || v == "true" {
		result.Verbose = true
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
