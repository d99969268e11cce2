package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the settings nabsearch needs to reach an indexer.
type Config struct {
	Path              string // resolved config file path, set even when the file is absent
	Host              string
	Timeout           time.Duration
	RequestsPerSecond float64
	ResultLimit       int
	UserAgent         string
	LogFile           string // empty disables logging
	LogLevel          string
	PrefsFile         string
}

const (
	envPrefix = "NABSEARCH"

	defaultConfigPath  = "~/.config/nabsearch/config.toml"
	defaultPrefsPath   = "~/.config/nabsearch/prefs.toml"
	defaultLogFile     = "~/.local/share/nabsearch/nabsearch.log"
	defaultTimeout     = 30 * time.Second
	defaultResultLimit = 100
	defaultLogLevel    = "info"
)

// Load reads the TOML config at path (or the default location), applying
// NABSEARCH_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(resolved); err == nil {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg := Config{
		Path:              resolved,
		Host:              strings.TrimSpace(v.GetString("host")),
		Timeout:           v.GetDuration("timeout"),
		RequestsPerSecond: v.GetFloat64("requests_per_second"),
		ResultLimit:       v.GetInt("result_limit"),
		UserAgent:         strings.TrimSpace(v.GetString("user_agent")),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
	}
	if cfg.Timeout < 0 {
		return Config{}, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = defaultResultLimit
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if logFile := strings.TrimSpace(v.GetString("log_file")); logFile != "" {
		if cfg.LogFile, err = expandPath(logFile); err != nil {
			return Config{}, fmt.Errorf("log_file: %w", err)
		}
	}

	prefsFile := strings.TrimSpace(v.GetString("prefs_file"))
	if prefsFile == "" {
		prefsFile = defaultPrefsPath
	}
	if cfg.PrefsFile, err = expandPath(prefsFile); err != nil {
		return Config{}, fmt.Errorf("prefs_file: %w", err)
	}

	return cfg, nil
}

// Validate reports settings that prevent talking to an indexer.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("indexer host is not set (host in %s or %s_HOST)", c.Path, envPrefix)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("requests_per_second", 0)
	v.SetDefault("result_limit", defaultResultLimit)
	v.SetDefault("user_agent", "")
	v.SetDefault("log_file", defaultLogFile)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("prefs_file", defaultPrefsPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath resolves a leading "~" and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
