// Package config loads actionlist settings. Sources are applied in order:
// defaults, the TOML config file, environment variables, then command-line
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultExportDir = "."
)

// Config holds every user-tunable setting.
type Config struct {
	// DBPath is the SQLite database file. Empty selects the XDG data dir.
	DBPath       string `toml:"db_path"`
	ExportDir    string `toml:"export_dir"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
	SeedDefaults bool   `toml:"seed_defaults"`
}

// Overrides carries values given on the command line. Empty fields are ignored.
type Overrides struct {
	DBPath   string
	LogLevel string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ExportDir:    DefaultExportDir,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		SeedDefaults: true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/actionlist/config.toml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "actionlist", "config.toml"), nil
}

// Load builds the configuration. An empty path uses DefaultPath, where a
// missing file just means defaults; an explicitly named file must exist.
func Load(path string, o Overrides) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	loadFromEnv(cfg)
	cfg.apply(o)
	cfg.finalize()
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("ACTIONLIST_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ACTIONLIST_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("ACTIONLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ACTIONLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ACTIONLIST_SEED_DEFAULTS"); v != "" {
		cfg.SeedDefaults = boolFromString(v)
	}
}

func (c *Config) apply(o Overrides) {
	if o.DBPath != "" {
		c.DBPath = o.DBPath
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

func (c *Config) finalize() {
	c.DBPath = expandPath(c.DBPath)
	c.ExportDir = expandPath(c.ExportDir)
	if c.ExportDir == "" {
		c.ExportDir = DefaultExportDir
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// expandPath expands environment variables and a leading ~.
func expandPath(p string) string {
	if p == "" || p == ":memory:" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
