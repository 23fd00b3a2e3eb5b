// Package config loads user settings from the XDG config directory and
// merges command-line overrides on top.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"curseddiff/logger"

	"github.com/adrg/xdg"
	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"
)

const appName = "curseddiff"

const defaultConfigRelPath = appName + "/config.yaml"

// Config keys, shared by the YAML file and the command-line flags
const (
	KeyAPIURL             = "api_url"
	KeyTimeoutMs          = "timeout_ms"
	KeyLogLevel           = "log_level"
	KeyProximityThreshold = "proximity_threshold"
	KeyLineHeight         = "line_height"
	KeyHistoryBackend     = "history_backend"
	KeyHistoryPath        = "history_path"
	KeyTheme              = "theme"
	KeySyntaxHighlight    = "syntax_highlight"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	APIURL             string `yaml:"api_url"`
	TimeoutMs          int    `yaml:"timeout_ms"`
	LogLevel           string `yaml:"log_level"` // trace, debug, info, warn, error
	ProximityThreshold int    `yaml:"proximity_threshold"`
	LineHeight         int    `yaml:"line_height"`
	HistoryBackend     string `yaml:"history_backend"` // sqlite or memory
	HistoryPath        string `yaml:"history_path"`
	Theme              string `yaml:"theme"` // chroma style name
	SyntaxHighlight    bool   `yaml:"syntax_highlight"`
}

// fileConfig mirrors Config with pointers so absent keys keep their defaults
type fileConfig struct {
	APIURL             *string `yaml:"api_url"`
	TimeoutMs          *int    `yaml:"timeout_ms"`
	LogLevel           *string `yaml:"log_level"`
	ProximityThreshold *int    `yaml:"proximity_threshold"`
	LineHeight         *int    `yaml:"line_height"`
	HistoryBackend     *string `yaml:"history_backend"`
	HistoryPath        *string `yaml:"history_path"`
	Theme              *string `yaml:"theme"`
	SyntaxHighlight    *bool   `yaml:"syntax_highlight"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		APIURL:             "http://localhost:3000",
		TimeoutMs:          10000,
		LogLevel:           "info",
		ProximityThreshold: 3,
		LineHeight:         1,
		HistoryBackend:     BackendSQLite,
		HistoryPath:        filepath.Join(xdg.DataHome, appName, "history.sqlite"),
		Theme:              "monokai",
		SyntaxHighlight:    true,
	}
}

// DefaultPath is where Load looks when no explicit path is given
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, defaultConfigRelPath)
}

// LogPath is the log file location
func LogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

// SocketPath is the unix socket the editor daemon listens on
func SocketPath() string {
	return filepath.Join(xdg.RuntimeDir, appName+".sock")
}

// PidPath is the daemon's pid file
func PidPath() string {
	return filepath.Join(xdg.RuntimeDir, appName+".pid")
}

// Timeout returns the HTTP timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Load reads the config file on top of the defaults. An empty explicitPath
// uses DefaultPath, which may be absent; an explicit path must exist.
func Load(explicitPath string) (Config, error) {
	path, required := explicitPath, true
	if path == "" {
		path, required = DefaultPath(), false
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			logger.Debug("config: no file at %s, using defaults", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	fc, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg = fc.applyTo(cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte) (fileConfig, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var fc fileConfig
	if err := decoder.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return fileConfig{}, nil
		}
		return fileConfig{}, err
	}
	return fc, nil
}

func (fc fileConfig) applyTo(cfg Config) Config {
	if fc.APIURL != nil {
		cfg.APIURL = *fc.APIURL
	}
	if fc.TimeoutMs != nil {
		cfg.TimeoutMs = *fc.TimeoutMs
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.ProximityThreshold != nil {
		cfg.ProximityThreshold = *fc.ProximityThreshold
	}
	if fc.LineHeight != nil {
		cfg.LineHeight = *fc.LineHeight
	}
	if fc.HistoryBackend != nil {
		cfg.HistoryBackend = *fc.HistoryBackend
	}
	if fc.HistoryPath != nil {
		cfg.HistoryPath = *fc.HistoryPath
	}
	if fc.Theme != nil {
		cfg.Theme = *fc.Theme
	}
	if fc.SyntaxHighlight != nil {
		cfg.SyntaxHighlight = *fc.SyntaxHighlight
	}
	return cfg
}

// Validate rejects values the rest of the program cannot work with
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("%s: must not be empty", KeyAPIURL)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("%s: must be positive, got %d", KeyTimeoutMs, c.TimeoutMs)
	}
	if _, ok := logger.ParseLogLevel(c.LogLevel); !ok {
		return fmt.Errorf("%s: unknown level %q", KeyLogLevel, c.LogLevel)
	}
	if c.ProximityThreshold <= 0 {
		return fmt.Errorf("%s: must be positive, got %d", KeyProximityThreshold, c.ProximityThreshold)
	}
	if c.LineHeight <= 0 {
		return fmt.Errorf("%s: must be positive, got %d", KeyLineHeight, c.LineHeight)
	}
	switch c.HistoryBackend {
	case BackendSQLite:
		if c.HistoryPath == "" {
			return fmt.Errorf("%s: required for the %s backend", KeyHistoryPath, BackendSQLite)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%s: unknown backend %q (want %s or %s)", KeyHistoryBackend, c.HistoryBackend, BackendSQLite, BackendMemory)
	}
	if _, ok := styles.Registry[c.Theme]; !ok {
		return fmt.Errorf("%s: unknown style %q", KeyTheme, c.Theme)
	}
	return nil
}

// Override sets one key from its command-line string form. Flag names may
// use dashes in place of underscores.
func (c Config) Override(key, value string) (Config, error) {
	key = strings.ReplaceAll(key, "-", "_")
	switch key {
	case KeyAPIURL:
		c.APIURL = value
	case KeyTimeoutMs:
		n, err := strconv.Atoi(value)
		if err != nil {
			return c, fmt.Errorf("%s: %w", key, err)
		}
		c.TimeoutMs = n
	case KeyLogLevel:
		c.LogLevel = value
	case KeyProximityThreshold:
		n, err := strconv.Atoi(value)
		if err != nil {
			return c, fmt.Errorf("%s: %w", key, err)
		}
		c.ProximityThreshold = n
	case KeyLineHeight:
		n, err := strconv.Atoi(value)
		if err != nil {
			return c, fmt.Errorf("%s: %w", key, err)
		}
		c.LineHeight = n
	case KeyHistoryBackend:
		c.HistoryBackend = value
	case KeyHistoryPath:
		c.HistoryPath = value
	case KeyTheme:
		c.Theme = value
	case KeySyntaxHighlight:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return c, fmt.Errorf("%s: %w", key, err)
		}
		c.SyntaxHighlight = b
	default:
		return c, fmt.Errorf("unknown config key %q", key)
	}
	return c, nil
}
