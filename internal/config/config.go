// Package config loads the optional strata.yaml used by the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the file looked up when no --config flag is given.
const DefaultPath = "strata.yaml"

// Config is the CLI configuration.
type Config struct {
	LogLevel  string        `yaml:"log_level" json:"log_level"`
	LogFormat string        `yaml:"log_format" json:"log_format"` // text | json
	HTTP      HTTPConfig    `yaml:"http" json:"http"`
	Metrics   MetricsConfig `yaml:"metrics" json:"metrics"`
	Redis     RedisConfig   `yaml:"redis" json:"redis"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	// StoreLabel adds the session ID to every series. Off by default since
	// session IDs come from request paths.
	StoreLabel bool `yaml:"store_label" json:"store_label"`
}

// RedisConfig enables change notifications when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Channel  string `yaml:"channel" json:"channel"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		HTTP:      HTTPConfig{Addr: ":8080"},
		Metrics:   MetricsConfig{Enabled: true, Path: "/metrics"},
		Redis:     RedisConfig{Channel: "strata:changes"},
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}
