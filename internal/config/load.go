package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	baseDir := RootFromConfigPath(path)
	if err := Validate(&cfg, baseDir); err != nil {
		return Config{}, err
	}
	if err := resolvePreferences(&cfg, baseDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the normalized configuration used when no config file exists.
func Default() Config {
	cfg := Config{Version: 1}
	Normalize(&cfg)
	return cfg
}

// Discover locates a config file from startDir upward and loads it. When no
// config file exists the defaults are returned together with an empty root.
func Discover(startDir string) (Config, string, error) {
	path, err := FindConfigPath(startDir)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return Default(), "", nil
		}
		return Config{}, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, RootFromConfigPath(path), nil
}

// resolvePreferences inlines preferences_file when preferences is empty.
func resolvePreferences(cfg *Config, baseDir string) error {
	if strings.TrimSpace(cfg.Preferences) != "" || strings.TrimSpace(cfg.PreferencesFile) == "" {
		return nil
	}
	data, err := os.ReadFile(ResolvePath(baseDir, cfg.PreferencesFile))
	if err != nil {
		return fmt.Errorf("read preferences file: %w", err)
	}
	cfg.Preferences = strings.TrimSpace(string(data))
	return nil
}

// ResolvePath resolves path against baseDir unless it is absolute.
func ResolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || strings.TrimSpace(baseDir) == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
