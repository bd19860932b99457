package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const defaultConfigTemplate = `version: 1

# Candidate files. Leave empty to use every *.json file in the working directory.
data_files: []

jurisdiction: "{{ .Jurisdiction }}"

# Voter preferences. When both are empty you are asked once per session.
preferences: ""
preferences_file: ""

ui: auto

model:
  provider: "{{ .Provider }}"
  model: "{{ .Model }}"
  max_tokens: 4096
  temperature: 0.0

search:
  provider: "duckduckgo"
  max_results: 3
  region: "us-en"

research:
  workers: 4
  refresh_per_stage: false

cache:
  backend: "memory"
  ttl_seconds: 3600

history:
  enabled: true
  path: "{{ .HistoryPath }}"

log:
  level: "warn"
  format: "console"
`

// ScaffoldOptions fills the generated config.
type ScaffoldOptions struct {
	Jurisdiction string
	Provider     string
	Model        string
	HistoryPath  string
}

// Scaffold writes a starter config file at configPath.
func Scaffold(configPath string, opts ScaffoldOptions) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if strings.TrimSpace(opts.Jurisdiction) == "" {
		opts.Jurisdiction = DefaultJurisdiction
	}
	if strings.TrimSpace(opts.Provider) == "" {
		opts.Provider = DefaultProvider
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = DefaultModel
		if opts.Provider == "gemini" {
			opts.Model = DefaultGeminiModel
		}
	}
	if strings.TrimSpace(opts.HistoryPath) == "" {
		opts.HistoryPath = DefaultHistoryPath
	}

	content, err := renderScaffold(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func renderScaffold(opts ScaffoldOptions) (string, error) {
	tmpl, err := template.New("config").Parse(defaultConfigTemplate)
	if err != nil {
		return "", fmt.Errorf("parse config template: %w", err)
	}
	var builder strings.Builder
	if err := tmpl.Execute(&builder, opts); err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return builder.String(), nil
}
