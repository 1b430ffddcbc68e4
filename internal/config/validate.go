package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/metrics"
)

var validLogLevels = map[string]bool{
	"":        true,
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var validColorModes = map[string]bool{
	"":       true,
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but waylon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade waylon to a newer release.")
	}

	if err := ValidateURL(cfg.URL); err != nil {
		return err
	}

	if err := ValidateView(cfg.View); err != nil {
		return err
	}

	if cfg.RebuildInterval < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("rebuild_interval must be at least 1 second, got %d", cfg.RebuildInterval),
			fmt.Sprintf("The default is %d (one hour).", DefaultRebuildInterval))
	}
	if cfg.RefreshInterval < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_interval must be at least 1 second, got %d", cfg.RefreshInterval),
			fmt.Sprintf("The default is %d (one minute).", DefaultRefreshInterval))
	}
	if cfg.FetchTimeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("fetch_timeout can't be negative, got %s", cfg.FetchTimeout),
			"Use 0 for no timeout, or a duration like 10s.")
	}

	if err := validateMetricsAddr(cfg.MetricsAddr); err != nil {
		return err
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level '%s'", cfg.Log.Level),
			"Use one of: debug, info, warn, error.")
	}
	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 {
		return errors.New(errors.ErrConfig,
			"log.max_size_mb and log.max_backups can't be negative",
			"Use 0 to keep lumberjack's defaults.")
	}

	if !validColorModes[cfg.Output.Color] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown color mode '%s'", cfg.Output.Color),
			"Use one of: auto, always, never.")
	}

	return nil
}

// Warnings returns non-fatal observations about the config.
func Warnings(cfg *Config) []string {
	var out []string
	if cfg.RefreshInterval > cfg.RebuildInterval {
		out = append(out, fmt.Sprintf(
			"refresh_interval (%ds) is longer than rebuild_interval (%ds); every status refresh will come from a rebuild",
			cfg.RefreshInterval, cfg.RebuildInterval))
	}
	if cfg.FetchTimeout == 0 {
		out = append(out, "fetch_timeout is 0: a hung status source request will hold the dashboard in its loading state")
	}
	return out
}

// ValidateView checks that a view name is a single non-empty path segment.
func ValidateView(view string) error {
	if strings.TrimSpace(view) == "" {
		return errors.New(errors.ErrConfig,
			"No view configured",
			"Set 'view' in .waylon.yaml, export WAYLON_VIEW, or run 'waylon init'.")
	}
	if strings.Contains(view, "/") || view == "." || view == ".." {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("View '%s' is not a single view name", view),
			"Use just the view name, like 'main' - not a path.")
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Status source URL '%s' isn't an absolute http(s) URL", raw),
			"Use something like "+DefaultURL+".")
	}
	return nil
}

func validateMetricsAddr(addr string) error {
	if !metrics.Enabled(addr) {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("metrics_addr '%s' isn't a host:port address", addr),
			"Use something like ':9464' or '127.0.0.1:9464', or 'off' to disable.")
	}
	return nil
}
