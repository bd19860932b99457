package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ConfigDirName      = ".ballot"
	ConfigFileName     = "config.yml"
	DefaultHistoryPath = ConfigDirName + "/history.duckdb"
)

// ErrConfigNotFound means no .ballot/config.yml exists at or above the start
// directory. Callers fall back to Default.
var ErrConfigNotFound = errors.New("config not found")

// ConfigPath returns root/.ballot/config.yml.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigDirName, ConfigFileName)
}

// RootFromConfigPath returns the project root for a config file: the parent
// of .ballot, or the file's own directory for configs kept elsewhere.
func RootFromConfigPath(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) != ConfigDirName {
		return dir
	}
	return filepath.Dir(dir)
}

// FindConfigPath walks from startDir (the working directory when empty) up to
// the filesystem root and returns the first .ballot/config.yml.
func FindConfigPath(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		candidate := ConfigPath(dir)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.IsDir():
			return "", fmt.Errorf("config path %q is a directory", candidate)
		case err == nil:
			return candidate, nil
		case !os.IsNotExist(err):
			return "", fmt.Errorf("stat config path %q: %w", candidate, err)
		}
		if filepath.Dir(dir) == dir {
			return "", fmt.Errorf("%w: no %s in %s or any parent", ErrConfigNotFound, filepath.Join(ConfigDirName, ConfigFileName), start)
		}
	}
}
