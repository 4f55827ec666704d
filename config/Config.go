// Package config loads converter settings from MHCONV_* environment
// variables and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envPrefix = "MHCONV"

type Config struct {
	Log    LogConfig    `yaml:"log" envconfig:"LOG"`
	Output OutputConfig `yaml:"output" envconfig:"OUTPUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

type OutputConfig struct {
	// DefaultFormat is used when a request does not name one.
	DefaultFormat string `yaml:"default_format" envconfig:"DEFAULT_FORMAT"`
	// Overwrite is nil when neither the environment nor the file sets it.
	Overwrite *bool `yaml:"overwrite" envconfig:"OVERWRITE"`
}

// OverwriteEnabled reports whether existing output files may be replaced
// without confirmation.
func (output OutputConfig) OverwriteEnabled() bool {
	return output.Overwrite != nil && *output.Overwrite
}

func Defaults() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Output: OutputConfig{DefaultFormat: "tabular"},
	}
}

// Load reads the environment, then fills unset values from the file named by
// MHCONV_CONFIG (if any), then from Defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		fileConfig, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileConfig, cfg)
	}
	cfg = merge(Defaults(), cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge fills unset values of override from base.
func merge(base, override Config) Config {
	if override.Log.Level == "" {
		override.Log.Level = base.Log.Level
	}
	if override.Log.Format == "" {
		override.Log.Format = base.Log.Format
	}
	if override.Output.DefaultFormat == "" {
		override.Output.DefaultFormat = base.Output.DefaultFormat
	}
	if override.Output.Overwrite == nil {
		override.Output.Overwrite = base.Output.Overwrite
	}
	return override
}

func (cfg Config) validate() error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", cfg.Log.Format)
	}
	switch strings.ToLower(cfg.Output.DefaultFormat) {
	case "tabular", "xlsx", "delimited", "csv":
	default:
		return fmt.Errorf("invalid default format %q", cfg.Output.DefaultFormat)
	}
	return nil
}
