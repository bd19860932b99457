package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".ballot", "config.yml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

// TestValidateCommandSuccess verifies validate command success path.
func TestValidateCommandSuccess(t *testing.T) {
	configPath := writeConfigFile(t, `version: 1
jurisdiction: "Wake County"
model:
  provider: openrouter
  model: anthropic/claude-3-sonnet
search:
  provider: duckduckgo
cache:
  backend: redis
  redis_addr: "localhost:6379"
`)

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, nil, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, err.String())
	}
	if !strings.Contains(out.String(), "Config OK") {
		t.Fatalf("expected success message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Model: openrouter/anthropic/claude-3-sonnet") {
		t.Fatalf("expected model summary, got %q", out.String())
	}
}

func TestValidateCommandReportsRaces(t *testing.T) {
	configPath := writeConfigFile(t, `version: 1
data_files: ["races.json", "missing.json"]
log:
  level: error
`)
	root := filepath.Dir(filepath.Dir(configPath))
	if err := os.WriteFile(filepath.Join(root, "races.json"), []byte(`{"Mayor": [{"candidates": "Ann Lee", "party": "DEM"}], "Senate": []}`), 0o644); err != nil {
		t.Fatalf("write races: %v", err)
	}

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, nil, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, err.String())
	}
	if !strings.Contains(out.String(), "Data files: 2, races: 2") {
		t.Fatalf("expected data summary, got %q", out.String())
	}
}

// TestValidateCommandFailure verifies validate command error handling.
func TestValidateCommandFailure(t *testing.T) {
	configPath := writeConfigFile(t, `version: 2
ui: fancy
model:
  provider: llama
`)

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, nil, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	for _, want := range []string{"Validation failed", "version", "ui", "model.provider"} {
		if !strings.Contains(err.String(), want) {
			t.Fatalf("expected %q in stderr, got %q", want, err.String())
		}
	}
}

// TestValidateCommandUnknownField verifies strict parsing.
func TestValidateCommandUnknownField(t *testing.T) {
	configPath := writeConfigFile(t, "version: 1\nmodels: {}\n")
	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, nil, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
}
