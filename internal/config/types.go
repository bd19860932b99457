package config

// Config is the parsed contents of .ballot/config.yml.
type Config struct {
	Version         int            `yaml:"version"`
	DataFiles       []string       `yaml:"data_files"`
	Jurisdiction    string         `yaml:"jurisdiction"`
	Preferences     string         `yaml:"preferences"`
	PreferencesFile string         `yaml:"preferences_file"`
	UI              string         `yaml:"ui"`
	Model           ModelConfig    `yaml:"model"`
	Search          SearchConfig   `yaml:"search"`
	Research        ResearchConfig `yaml:"research"`
	Cache           CacheConfig    `yaml:"cache"`
	History         HistoryConfig  `yaml:"history"`
	Log             LogConfig      `yaml:"log"`
}

type ModelConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	BaseURL     string  `yaml:"base_url"`
}

type SearchConfig struct {
	Provider   string `yaml:"provider"`
	MaxResults int    `yaml:"max_results"`
	Region     string `yaml:"region"`
}

type ResearchConfig struct {
	Workers         int  `yaml:"workers"`
	RefreshPerStage bool `yaml:"refresh_per_stage"`
}

type CacheConfig struct {
	Backend    string `yaml:"backend"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
}

// HistoryConfig controls the analysis history database. Enabled is a pointer
// so an omitted key can default to on.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HistoryEnabled reports whether analyses should be recorded.
func (c Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}
