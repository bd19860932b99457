package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultJurisdiction    = "North Carolina"
	DefaultProvider        = "openrouter"
	DefaultModel           = "anthropic/claude-3-sonnet"
	DefaultGeminiModel     = "gemini-2.5-pro"
	DefaultMaxTokens       = 4096
	DefaultSearchProvider  = "duckduckgo"
	DefaultMaxResults      = 3
	DefaultRegion          = "us-en"
	DefaultResearchWorkers = 4
	DefaultCacheBackend    = "memory"
	DefaultCacheTTLSeconds = 3600
	DefaultRedisAddr       = "localhost:6379"
)

func Normalize(cfg *Config) {
	if strings.TrimSpace(cfg.Jurisdiction) == "" {
		cfg.Jurisdiction = DefaultJurisdiction
	}
	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	if cfg.UI == "" {
		cfg.UI = "auto"
	}

	cfg.Model.Provider = strings.ToLower(strings.TrimSpace(cfg.Model.Provider))
	if cfg.Model.Provider == "" {
		cfg.Model.Provider = DefaultProvider
	}
	if strings.TrimSpace(cfg.Model.Model) == "" {
		if cfg.Model.Provider == "gemini" {
			cfg.Model.Model = DefaultGeminiModel
		} else {
			cfg.Model.Model = DefaultModel
		}
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = DefaultMaxTokens
	}

	cfg.Search.Provider = strings.ToLower(strings.TrimSpace(cfg.Search.Provider))
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = DefaultSearchProvider
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
	if strings.TrimSpace(cfg.Search.Region) == "" {
		cfg.Search.Region = DefaultRegion
	}

	if cfg.Research.Workers == 0 {
		cfg.Research.Workers = DefaultResearchWorkers
	}

	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}
	if cfg.Cache.Backend == "redis" && strings.TrimSpace(cfg.Cache.RedisAddr) == "" {
		cfg.Cache.RedisAddr = DefaultRedisAddr
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = DefaultHistoryPath
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}
