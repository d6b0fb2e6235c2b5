// Package config loads blobtool configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Allocator AllocatorConfig `mapstructure:"allocator"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AllocatorConfig selects the memory backing for blobs.
type AllocatorConfig struct {
	Kind  string `mapstructure:"kind"`
	Trace bool   `mapstructure:"trace"`
}

// LoggingConfig controls the logrus logger.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Allocator: AllocatorConfig{
			Kind: alloc.KindHeap,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			Console: true,
		},
	}
}

// Load reads configuration from defaults, then cfgFile (or ./blobtool.yaml
// when present), then BLOBTOOL_* environment variables, later sources winning.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("blobtool")
	}

	v.SetEnvPrefix("BLOBTOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	kinds := []string{alloc.KindHeap, alloc.KindMmap, alloc.KindWebGPU}
	if !slices.Contains(kinds, c.Allocator.Kind) {
		return fmt.Errorf("allocator.kind must be one of: %v", kinds)
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", levels)
	}

	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("allocator.kind", cfg.Allocator.Kind)
	v.SetDefault("allocator.trace", cfg.Allocator.Trace)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
