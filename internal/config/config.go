// Package config handles configuration parsing for skiff.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default config file path:
// $XDG_CONFIG_HOME/skiff/config.yaml or ~/.config/skiff/config.yaml.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "skiff", "config.yaml")
}

// Config represents the top-level configuration.
type Config struct {
	Hosts    []HostConfig  `yaml:"hosts"`
	Defaults Defaults      `yaml:"defaults"`
	Logging  LoggingConfig `yaml:"logging"`
}

// HostConfig defines a named remote host.
type HostConfig struct {
	Name        string `yaml:"name"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	KeyPath     string `yaml:"key_path"`
	PasswordEnv string `yaml:"password_env"` // env var containing the SSH password
}

// Defaults apply to hosts that leave fields unset.
type Defaults struct {
	User string `yaml:"user"`
	Port int    `yaml:"port"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Sanitize *bool  `yaml:"sanitize"`
}

// Load reads the config file at path, or the default path when empty. A
// missing default file yields an empty config, not an error.
func Load(path string) (*Config, error) {
	usingDefault := path == ""
	if usingDefault {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if usingDefault && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, h := range c.Hosts {
		if h.Host == "" && h.Name == "" {
			return fmt.Errorf("hosts[%d]: host is required", i)
		}
		name := h.Name
		if name == "" {
			name = h.Host
		}
		if seen[name] {
			return fmt.Errorf("hosts[%d]: duplicate host name %q", i, name)
		}
		seen[name] = true
		if h.Port < 0 || h.Port > 65535 {
			return fmt.Errorf("hosts[%d]: invalid port %d", i, h.Port)
		}
	}
	return nil
}

// LookupHost resolves a name or hostname against the configured hosts,
// filling in defaults. Unknown names come back as a bare host entry so
// ad-hoc targets still work.
func (c *Config) LookupHost(name string) HostConfig {
	for _, h := range c.Hosts {
		if h.Name == name || (h.Name == "" && h.Host == name) {
			return c.applyDefaults(h)
		}
	}
	return c.applyDefaults(HostConfig{Host: name})
}

func (c *Config) applyDefaults(h HostConfig) HostConfig {
	if h.Host == "" {
		h.Host = h.Name
	}
	if h.User == "" {
		h.User = c.Defaults.User
	}
	if h.Port == 0 {
		h.Port = c.Defaults.Port
	}
	return h
}

// SanitizeLogs reports whether log sanitization is on (default true).
func (c *Config) SanitizeLogs() bool {
	if c.Logging.Sanitize == nil {
		return true
	}
	return *c.Logging.Sanitize
}

// parsePort converts a port string from ssh_config, tolerating junk.
func parsePort(s string) int {
	p, err := strconv.Atoi(s)
	if err != nil || p <= 0 || p > 65535 {
		return 0
	}
	return p
}
