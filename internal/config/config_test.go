package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, root, payload string) string {
	t.Helper()
	dir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg, ""); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Model.Provider != DefaultProvider || cfg.Model.Model != DefaultModel {
		t.Fatalf("unexpected model defaults: %+v", cfg.Model)
	}
	if cfg.Model.MaxTokens != DefaultMaxTokens {
		t.Fatalf("expected max tokens %d, got %d", DefaultMaxTokens, cfg.Model.MaxTokens)
	}
	if cfg.Search.MaxResults != 3 || cfg.Search.Region != "us-en" {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if !cfg.HistoryEnabled() {
		t.Fatalf("expected history enabled by default")
	}
}

func TestNormalizeGeminiModelDefault(t *testing.T) {
	cfg := Config{Version: 1, Model: ModelConfig{Provider: "Gemini"}}
	Normalize(&cfg)
	if cfg.Model.Provider != "gemini" {
		t.Fatalf("expected provider to be lowercased, got %q", cfg.Model.Provider)
	}
	if cfg.Model.Model != DefaultGeminiModel {
		t.Fatalf("expected gemini default model, got %q", cfg.Model.Model)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: 1\nunknown: true\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("version: 1\n---\nversion: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("expected multiple document error, got %v", err)
	}
}

func TestValidateCollectsIssues(t *testing.T) {
	cfg := Default()
	cfg.Model.Provider = "nope"
	cfg.Search.Provider = "bing"
	cfg.UI = "fancy"
	cfg.Cache.Backend = "memcached"

	err := Validate(&cfg, ".")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %v", len(validationErr.Issues), err)
	}
	for _, field := range []string{"model.provider", "search.provider", "ui", "cache.backend"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in error, got %q", field, err.Error())
		}
	}
}

func TestLoadResolvesPreferencesFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "prefs.txt"), []byte("  Lower taxes.\n"), 0o644); err != nil {
		t.Fatalf("write prefs: %v", err)
	}
	path := writeConfig(t, root, "version: 1\npreferences_file: prefs.txt\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Preferences != "Lower taxes." {
		t.Fatalf("unexpected preferences %q", cfg.Preferences)
	}
}

func TestLoadMissingPreferencesFile(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "version: 1\npreferences_file: missing.txt\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "preferences_file") {
		t.Fatalf("expected preferences_file error, got %v", err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "version: 1\njurisdiction: Ohio\nhistory:\n  enabled: false\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, foundRoot, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Jurisdiction != "Ohio" {
		t.Fatalf("expected jurisdiction from file, got %q", cfg.Jurisdiction)
	}
	if cfg.HistoryEnabled() {
		t.Fatalf("expected history disabled")
	}
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedFound, _ := filepath.EvalSymlinks(foundRoot)
	if resolvedRoot != resolvedFound {
		t.Fatalf("expected root %q, got %q", root, foundRoot)
	}
}

func TestDiscoverWithoutConfigUsesDefaults(t *testing.T) {
	cfg, root, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if root != "" {
		t.Fatalf("expected empty root, got %q", root)
	}
	if cfg.Jurisdiction != DefaultJurisdiction {
		t.Fatalf("expected default jurisdiction, got %q", cfg.Jurisdiction)
	}
}

func TestScaffoldWritesLoadableConfig(t *testing.T) {
	root := t.TempDir()
	path := ConfigPath(root)
	if err := Scaffold(path, ScaffoldOptions{Jurisdiction: "Texas"}); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load scaffolded config: %v", err)
	}
	if cfg.Jurisdiction != "Texas" {
		t.Fatalf("expected jurisdiction Texas, got %q", cfg.Jurisdiction)
	}
	if err := Scaffold(path, ScaffoldOptions{}); err == nil {
		t.Fatalf("expected error when config already exists")
	}
}
