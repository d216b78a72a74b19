// Package config loads prettygit settings from YAML.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".config"
	appDirName     = "prettygit"
	configFileName = "config.yaml"
)

// Environment variables that override the file.
const (
	EnvPort       = "PORT"
	EnvCloneToken = "PRETTYGIT_GIT_TOKEN"
)

// Config holds the application settings.
type Config struct {
	// Addr is the listen address of the web UI.
	Addr string `yaml:"addr"`
	// StartDir is the first directory shown. Empty means the home directory.
	StartDir string `yaml:"start_dir,omitempty"`

	GitBinary    string        `yaml:"git_binary"`
	GitTimeout   time.Duration `yaml:"git_timeout"`
	CloneTimeout time.Duration `yaml:"clone_timeout"`
	// CloneToken is embedded in private GitHub clone addresses.
	CloneToken string `yaml:"clone_token,omitempty"`

	AutoRefresh     bool   `yaml:"auto_refresh"`
	HighlightStyle  string `yaml:"highlight_style"`
	MaxPreviewBytes int64  `yaml:"max_preview_bytes"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
	// DebugLog is a log file path. Empty logs to stderr.
	DebugLog string `yaml:"debug_log,omitempty"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Addr:            "127.0.0.1:3000",
		GitBinary:       "git",
		GitTimeout:      10 * time.Second,
		CloneTimeout:    5 * time.Minute,
		AutoRefresh:     true,
		HighlightStyle:  "monokai",
		MaxPreviewBytes: 1 << 20,
		LogFormat:       "text",
		LogLevel:        "info",
	}
}

// Dir returns the configuration directory (~/.config/prettygit).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, appDirName), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the configuration at path, or the default path when empty.
// A missing or unreadable file yields the defaults. Invalid YAML yields the
// defaults together with the parse error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	expanded, err := expandPath(path)
	if err != nil {
		return DefaultConfig(), err
	}

	// #nosec G304 -- the path is chosen by the local user
	data, err := os.ReadFile(expanded)
	if err != nil {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", expanded, err)
	}
	return cfg, nil
}

// Save writes cfg to path, or the default path when empty.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	path, err := expandPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// The file may hold a token.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ApplyEnv overrides settings from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := strings.TrimSpace(getenv(EnvPort)); port != "" {
		host, _, err := net.SplitHostPort(c.Addr)
		if err != nil {
			host = ""
		}
		c.Addr = net.JoinHostPort(host, port)
	}
	if token := strings.TrimSpace(getenv(EnvCloneToken)); token != "" {
		c.CloneToken = token
	}
}

// ResolveStartDir returns StartDir with ~ expanded, or the home directory.
func (c *Config) ResolveStartDir() (string, error) {
	if c.StartDir == "" {
		return os.UserHomeDir()
	}
	return expandPath(c.StartDir)
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.GitTimeout <= 0 {
		errs = append(errs, fmt.Errorf("git_timeout must be positive, got %s", c.GitTimeout))
	}
	if c.CloneTimeout <= 0 {
		errs = append(errs, fmt.Errorf("clone_timeout must be positive, got %s", c.CloneTimeout))
	}
	if c.MaxPreviewBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_preview_bytes must be positive, got %d", c.MaxPreviewBytes))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
