package config

import (
	"time"

	"github.com/rileyhilliard/waylon/internal/logger"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Default poll settings.
const (
	DefaultURL             = "http://localhost:9292"
	DefaultRebuildInterval = 3600 // seconds
	DefaultRefreshInterval = 60   // seconds
	DefaultMetricsAddr     = "off"
)

// Config represents the complete .waylon.yaml configuration file.
// It is read once at startup and never changes afterwards.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// URL is the base address of the status source API.
	URL string `yaml:"url" mapstructure:"url"`

	// View is the name of the view the radiator displays.
	View string `yaml:"view" mapstructure:"view"`

	// RebuildInterval is how often, in seconds, the job list is rediscovered.
	RebuildInterval int `yaml:"rebuild_interval" mapstructure:"rebuild_interval"`

	// RefreshInterval is how often, in seconds, job status is re-fetched.
	RefreshInterval int `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// FetchTimeout bounds each request to the status source. Zero means no timeout.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`

	// MetricsAddr is the listen address for /metrics and /healthz ("off" disables).
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`

	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// LogConfig controls where diagnostics go.
type LogConfig struct {
	// Level: "debug", "info", "warn" or "error".
	Level string `yaml:"level" mapstructure:"level"`

	// File receives logs while the dashboard owns the terminal. Supports ~.
	File string `yaml:"file" mapstructure:"file"`

	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// RebuildEvery returns the rebuild interval as a duration.
func (c *Config) RebuildEvery() time.Duration {
	return time.Duration(c.RebuildInterval) * time.Second
}

// RefreshEvery returns the refresh interval as a duration.
func (c *Config) RefreshEvery() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// LoggerOptions maps the log section onto logger options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		Compress:   c.Log.Compress,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:         CurrentConfigVersion,
		URL:             DefaultURL,
		RebuildInterval: DefaultRebuildInterval,
		RefreshInterval: DefaultRefreshInterval,
		MetricsAddr:     DefaultMetricsAddr,
		Log: LogConfig{
			Level:      "info",
			File:       "~/.local/state/waylon/waylon.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
