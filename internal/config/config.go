package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds atlas runtime settings.
type Config struct {
	APIBase           string
	Timeout           time.Duration
	RequestsPerSecond float64
	// CachePath is empty when the offline cache is disabled.
	CachePath string
	LogPath   string
	LogLevel  string
}

const (
	defaultConfigPath        = "~/.config/atlas/config.toml"
	defaultAPIBase           = "https://restcountries.com/v3.1"
	defaultTimeoutSeconds    = 10
	defaultRequestsPerSecond = 4
	defaultCachePath         = "~/.cache/atlas/countries.db"
	defaultLogPath           = "~/.local/state/atlas/atlas.log"
	defaultLogLevel          = "info"

	cacheOff = "off"
)

var logLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:           defaultAPIBase,
		Timeout:           defaultTimeoutSeconds * time.Second,
		RequestsPerSecond: defaultRequestsPerSecond,
		CachePath:         mustExpand(defaultCachePath),
		LogPath:           mustExpand(defaultLogPath),
		LogLevel:          defaultLogLevel,
	}
}

// Load reads the atlas config, falling back to defaults when the file is
// missing and for every blank field.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string   `toml:"api_base"`
		TimeoutSeconds    *int     `toml:"timeout_seconds"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
		CachePath         string   `toml:"cache_path"`
		LogPath           string   `toml:"log_path"`
		LogLevel          string   `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.APIBase); base != "" {
		u, err := url.Parse(base)
		if err != nil || u.Host == "" {
			return Config{}, fmt.Errorf("invalid api_base %q", base)
		}
		cfg.APIBase = strings.TrimRight(base, "/")
	}

	if raw.TimeoutSeconds != nil {
		if *raw.TimeoutSeconds <= 0 {
			return Config{}, fmt.Errorf("timeout_seconds must be positive, got %d", *raw.TimeoutSeconds)
		}
		cfg.Timeout = time.Duration(*raw.TimeoutSeconds) * time.Second
	}

	// Zero disables pacing.
	if raw.RequestsPerSecond != nil {
		if *raw.RequestsPerSecond < 0 {
			return Config{}, fmt.Errorf("requests_per_second must not be negative, got %v", *raw.RequestsPerSecond)
		}
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}

	switch cache := strings.TrimSpace(raw.CachePath); {
	case strings.EqualFold(cache, cacheOff):
		cfg.CachePath = ""
	case cache != "":
		cfg.CachePath = mustExpand(cache)
	}

	if logPath := strings.TrimSpace(raw.LogPath); logPath != "" {
		cfg.LogPath = mustExpand(logPath)
	}

	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		if _, ok := logLevels[level]; !ok {
			return Config{}, fmt.Errorf("invalid log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// CacheEnabled reports whether an offline cache path is configured.
func (c Config) CacheEnabled() bool {
	return strings.TrimSpace(c.CachePath) != ""
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
