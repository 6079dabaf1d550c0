package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default settings file name.
const DefaultConfigFile = ".retester"

// XDGConfigFile is the settings file name inside the XDG config directory.
const XDGConfigFile = "config.yaml"

// Output format names accepted by the settings file and SetFormat.
const (
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// File represents the structure of the .retester settings file.
// Unset fields leave the corresponding Config value alone.
type File struct {
	// MatchTimeout is a duration such as "500ms" or "5s".
	MatchTimeout time.Duration `yaml:"match_timeout,omitempty"`

	// Concurrency is the number of suite cases evaluated at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	// History enables or disables the history database.
	History *bool `yaml:"history,omitempty"`

	// DBDir overrides the history database directory.
	DBDir string `yaml:"db_dir,omitempty"`

	// Format is one of html, json, markdown or text.
	Format string `yaml:"format,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies the values set in the file into c.
func (cf *File) Apply(c *Config) error {
	if cf.MatchTimeout != 0 {
		c.MatchTimeout = cf.MatchTimeout
	}
	if cf.Concurrency != 0 {
		c.Concurrency = cf.Concurrency
	}
	if cf.History != nil {
		c.History = *cf.History
	}
	if cf.DBDir != "" {
		c.DBDir = cf.DBDir
	}
	if cf.Format != "" {
		if err := c.SetFormat(cf.Format); err != nil {
			return err
		}
	}
	return nil
}

// FindConfigFile searches for the settings file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .retester in the current directory
// 3. Look for .retester in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the settings file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), XDGConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
