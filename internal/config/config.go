// Package config loads CLI defaults from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. DISKUSAGE_TOP.
const Prefix = "diskusage"

// Config holds defaults for command-line flags. Flags given explicitly take precedence.
type Config struct {
	Top      int    `default:"10"    envconfig:"TOP"`
	Output   string `default:"table" envconfig:"OUTPUT"`
	ExtStats bool   `default:"false" envconfig:"EXT_STATS"`
	Debug    bool   `default:"false" envconfig:"DEBUG"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration from environment: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		Top:    10,
		Output: "table",
	}
}
