// Package config holds the global specfleet configuration record. Values
// come from ~/.config/specfleet/config.toml, SPECFLEET_* environment
// variables, and CLI flag overrides, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/specfleet/specfleet/internal/faults"
	"github.com/specfleet/specfleet/internal/score"
)

// Config is the global configuration record for a specfleet invocation.
type Config struct {
	Weights            score.Weights `mapstructure:"weights" toml:"weights"`
	AttentionThreshold float64       `mapstructure:"attention_threshold" toml:"attention_threshold"`
	ScanDepth          int           `mapstructure:"scan_depth" toml:"scan_depth"`
	WatchIntervalSecs  int           `mapstructure:"watch_interval_secs" toml:"watch_interval_secs"`
	AutomationLevel    string        `mapstructure:"automation_level" toml:"automation_level"`
	DryRunDefault      bool          `mapstructure:"dry_run_default" toml:"dry_run_default"`
	MaxProjects        int           `mapstructure:"max_projects" toml:"max_projects"`
	Verbose            bool          `mapstructure:"verbose" toml:"verbose"`
	Workers            int           `mapstructure:"workers" toml:"workers"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("weights.needs_human", 40.0)
	viper.SetDefault("weights.risk", 25.0)
	viper.SetDefault("weights.staleness", 15.0)
	viper.SetDefault("weights.impact", 15.0)
	viper.SetDefault("weights.confidence", 10.0)
	viper.SetDefault("attention_threshold", 50.0)
	viper.SetDefault("scan_depth", 5)
	viper.SetDefault("watch_interval_secs", 5)
	viper.SetDefault("automation_level", "L1")
	viper.SetDefault("dry_run_default", true)
	viper.SetDefault("max_projects", 0)
	viper.SetDefault("verbose", false)
	viper.SetDefault("workers", 4)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// WatchInterval returns the watch rescan interval as a duration.
func (c Config) WatchInterval() time.Duration {
	return time.Duration(c.WatchIntervalSecs) * time.Second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Weights:            score.DefaultWeights(),
		AttentionThreshold: 50.0,
		ScanDepth:          5,
		WatchIntervalSecs:  5,
		AutomationLevel:    "L1",
		DryRunDefault:      true,
		Verbose:            false,
		Workers:            4,
	}
}

// Path returns the fixed per-user config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: resolving home directory: %v", faults.ErrConfiguration, err)
	}
	return filepath.Join(home, ".config", "specfleet", "config.toml"), nil
}

// WriteDefault writes the default configuration as TOML to path, creating
// parent directories as needed. Used by `specfleet config init`.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating config directory: %v", faults.ErrFilesystem, err)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("%w: marshaling default config: %v", faults.ErrSerialization, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", faults.ErrFilesystem, path, err)
	}
	return nil
}
