package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the hopp tool configuration loaded from a YAML file.
// CLI flags override any value set here.
type Config struct {
	Environment   string `yaml:"environment,omitempty"`
	ServerURL     string `yaml:"serverUrl,omitempty"`
	Delay         string `yaml:"delay,omitempty"` // duration string, e.g. "500ms"
	ReporterJUnit string `yaml:"reporterJunit,omitempty"`
	ReporterJSON  string `yaml:"reporterJson,omitempty"`
	History       string `yaml:"history,omitempty"`
	Insecure      *bool  `yaml:"insecure,omitempty"`
	NoColor       *bool  `yaml:"noColor,omitempty"`
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetInsecure returns the insecure setting, defaulting to false
func (c *Config) GetInsecure() bool {
	return getBool(c.Insecure, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetDelay parses the configured delay, returning zero when unset.
func (c *Config) GetDelay() (time.Duration, error) {
	if c.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q in config: %w", c.Delay, err)
	}
	return d, nil
}

// Filenames contains the config file names searched in order.
var Filenames = []string{
	"hopp.config.yml",
	".hopprc.yml",
}

// Load loads configuration from the specified path, or searches the
// current directory for a known config file when path is empty. A missing
// config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFromFile(path)
	}
	return FindAndLoad(".")
}

// FindAndLoad searches for a config file in the given directory.
func FindAndLoad(dir string) (*Config, error) {
	for _, filename := range Filenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadFromFile(configPath)
		}
	}
	return &Config{}, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge merges another config into this one, with other taking precedence.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Environment != "" {
		result.Environment = other.Environment
	}
	if other.ServerURL != "" {
		result.ServerURL = other.ServerURL
	}
	if other.Delay != "" {
		result.Delay = other.Delay
	}
	if other.ReporterJUnit != "" {
		result.ReporterJUnit = other.ReporterJUnit
	}
	if other.ReporterJSON != "" {
		result.ReporterJSON = other.ReporterJSON
	}
	if other.History != "" {
		result.History = other.History
	}
	if other.Insecure != nil {
		result.Insecure = other.Insecure
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}
