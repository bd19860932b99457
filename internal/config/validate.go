package config

import (
	"fmt"
	"os"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks a normalized config for correctness and referenced files.
func Validate(cfg *Config, baseDir string) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	for i, path := range cfg.DataFiles {
		if strings.TrimSpace(path) == "" {
			add(fmt.Sprintf("data_files[%d]", i), "must not be empty")
		}
	}

	switch cfg.UI {
	case "auto", "live", "plain":
	default:
		add("ui", fmt.Sprintf("invalid ui mode %q (expected auto|live|plain)", cfg.UI))
	}

	if strings.TrimSpace(cfg.PreferencesFile) != "" && strings.TrimSpace(cfg.Preferences) == "" {
		path := ResolvePath(baseDir, cfg.PreferencesFile)
		if info, err := os.Stat(path); err != nil {
			add("preferences_file", fmt.Sprintf("cannot read %q", path))
		} else if info.IsDir() {
			add("preferences_file", fmt.Sprintf("%q is a directory", path))
		}
	}

	validateModel(cfg.Model, add)
	validateSearch(cfg.Search, add)

	if cfg.Research.Workers < 0 {
		add("research.workers", "must be >= 0")
	}

	switch cfg.Cache.Backend {
	case "memory", "none":
	case "redis":
		if strings.TrimSpace(cfg.Cache.RedisAddr) == "" {
			add("cache.redis_addr", "is required for redis backend")
		}
		if cfg.Cache.RedisDB < 0 {
			add("cache.redis_db", "must be >= 0")
		}
	default:
		add("cache.backend", fmt.Sprintf("unsupported backend %q", cfg.Cache.Backend))
	}
	if cfg.Cache.TTLSeconds < 0 {
		add("cache.ttl_seconds", "must be >= 0")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", fmt.Sprintf("unsupported level %q", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		add("log.format", fmt.Sprintf("unsupported format %q", cfg.Log.Format))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateModel(model ModelConfig, add func(field, message string)) {
	switch model.Provider {
	case "openrouter", "gemini":
	default:
		add("model.provider", fmt.Sprintf("unsupported provider %q", model.Provider))
	}
	if strings.TrimSpace(model.Model) == "" {
		add("model.model", "is required")
	}
	if model.MaxTokens < 0 {
		add("model.max_tokens", "must be > 0")
	}
	if model.Temperature < 0 || model.Temperature > 2 {
		add("model.temperature", "must be between 0 and 2")
	}
}

func validateSearch(search SearchConfig, add func(field, message string)) {
	switch search.Provider {
	case "duckduckgo", "tavily":
	default:
		add("search.provider", fmt.Sprintf("unsupported provider %q", search.Provider))
	}
	if search.MaxResults < 0 {
		add("search.max_results", "must be > 0")
	}
}
