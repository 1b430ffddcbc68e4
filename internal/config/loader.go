package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/waylon/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".waylon.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/waylon"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. WAYLON_VIEW.
	EnvPrefix = "WAYLON"
)

// Load reads config from the specified path. Environment variables
// (WAYLON_URL, WAYLON_LOG_LEVEL, ...) override values from the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'waylon init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .waylon.yaml in current directory
// 3. .waylon.yaml in parent directories (stops at git root or home)
// 4. ~/.config/waylon/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for !isGitRoot(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path. When no file exists the
// defaults are used, still subject to environment overrides. The returned
// path is empty in that case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env binding set up.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so environment overrides apply even when
// the key is absent from the file.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("url", def.URL)
	v.SetDefault("view", def.View)
	v.SetDefault("rebuild_interval", def.RebuildInterval)
	v.SetDefault("refresh_interval", def.RefreshInterval)
	v.SetDefault("fetch_timeout", "0s")
	v.SetDefault("metrics_addr", def.MetricsAddr)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.compress", def.Log.Compress)
	v.SetDefault("output.color", def.Output.Color)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.View = strings.TrimSpace(cfg.View)
	cfg.Log.File = ExpandTilde(cfg.Log.File)

	return cfg, nil
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
