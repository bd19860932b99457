package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ballot/internal/config"
)

// loadConfig loads an explicit config path, or discovers one from the
// working directory. root is empty when built-in defaults are used.
func loadConfig(configPath string) (config.Config, string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.Discover("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.Load(abs)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, config.RootFromConfigPath(abs), nil
}

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// historyPath resolves the history database location for cfg.
func historyPath(cfg config.Config, root string) string {
	path := cfg.History.Path
	if strings.TrimSpace(path) == "" {
		path = config.DefaultHistoryPath
	}
	if root == "" {
		if wd, err := os.Getwd(); err == nil {
			root = wd
		}
	}
	return config.ResolvePath(root, path)
}
