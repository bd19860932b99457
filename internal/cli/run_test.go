package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"ballot/internal/config"
	"ballot/internal/llm"
	"ballot/internal/search"
)

type cannedSearcher struct {
	calls atomic.Int32
}

func (s *cannedSearcher) Search(_ context.Context, query search.Query) ([]search.Result, error) {
	s.calls.Add(1)
	return []search.Result{{Title: "Profile", Body: "Profile for " + query.Text}}, nil
}

// stubServices replaces the model and search constructors for a test.
func stubServices(t *testing.T, provider llm.Provider, searcher search.Searcher) {
	t.Helper()
	origProvider, origSearcher := newProvider, newSearcher
	newProvider = func(context.Context, config.ModelConfig, string, *http.Client) (llm.Provider, error) {
		return provider, nil
	}
	newSearcher = func(string, *http.Client) (search.Searcher, error) {
		return searcher, nil
	}
	t.Cleanup(func() {
		newProvider, newSearcher = origProvider, origSearcher
	})
}

func writeProject(t *testing.T, extraConfig string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	data := `{"Mayor": [{"candidates": "Ann Lee", "party": "DEM"}, {"candidates": "Bo Park", "party": "REP"}]}`
	if err := os.WriteFile(filepath.Join(dir, "races.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	configPath := filepath.Join(dir, ".ballot", "config.yml")
	body := `version: 1
data_files: ["races.json"]
preferences: "I ride the bus."
ui: plain
cache:
  backend: none
` + extraConfig
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir, configPath
}

func scriptedProvider(prompts *[]string) llm.Provider {
	return llm.Func(func(_ context.Context, req llm.Request) (string, error) {
		*prompts = append(*prompts, req.Prompt)
		if len(*prompts) == 1 {
			return `{"rationale": "r", "key_issues": "Transit", "issue_analysis": "Buses matter."}`, nil
		}
		return `{"rationale": "r", "recommendation": "Ann Lee", "reasoning": "Best transit plan."}`, nil
	})
}

func TestRunCommandAnalyzesAndRecordsHistory(t *testing.T) {
	dir, configPath := writeProject(t, "")
	var prompts []string
	searcher := &cannedSearcher{}
	stubServices(t, scriptedProvider(&prompts), searcher)

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "--config", configPath}, strings.NewReader("1\n\n"), &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, errOut.String())
	}
	output := out.String()
	for _, want := range []string{
		"Analyzing Mayor...",
		"Started candidate research",
		"Recommendation:\nAnn Lee\n",
		"Reasoning:\nBest transit plan.\n",
		"All races have been analyzed!",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q, got %q", want, output)
		}
	}
	if len(prompts) != 2 {
		t.Fatalf("expected two model calls, got %d", len(prompts))
	}
	if got := searcher.calls.Load(); got != 2 {
		t.Fatalf("expected one search per candidate, got %d", got)
	}
	if !strings.Contains(prompts[0], "North Carolina Ann Lee Mayor politician positions views") {
		t.Fatalf("expected research text in prompt, got %q", prompts[0])
	}
	if _, err := os.Stat(filepath.Join(dir, ".ballot", "history.duckdb")); err != nil {
		t.Fatalf("expected history database: %v", err)
	}

	out.Reset()
	errOut.Reset()
	code = Run([]string{"history", "--config", configPath}, nil, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected history exit %d, got %d (stderr %q)", ExitOK, code, errOut.String())
	}
	if !strings.Contains(out.String(), "Mayor") || !strings.Contains(out.String(), "Recommendation: Ann Lee") {
		t.Fatalf("unexpected history output %q", out.String())
	}
	if !strings.Contains(out.String(), "Ann Lee (DEM), Bo Park (REP)") {
		t.Fatalf("expected candidate list, got %q", out.String())
	}
}

func TestRunCommandRefreshPerStage(t *testing.T) {
	_, configPath := writeProject(t, "research:\n  refresh_per_stage: true\nhistory:\n  enabled: false\n")
	var prompts []string
	searcher := &cannedSearcher{}
	stubServices(t, scriptedProvider(&prompts), searcher)

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "--config", configPath}, strings.NewReader("1\n\n"), &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, errOut.String())
	}
	if got := searcher.calls.Load(); got != 4 {
		t.Fatalf("expected research per stage, got %d searches", got)
	}
}

func TestRunCommandReportsModelFailure(t *testing.T) {
	_, configPath := writeProject(t, "history:\n  enabled: false\n")
	provider := llm.Func(func(context.Context, llm.Request) (string, error) {
		return "", fmt.Errorf("openrouter error: quota exceeded")
	})
	stubServices(t, provider, &cannedSearcher{})

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "--config", configPath}, strings.NewReader("1\nq\n"), &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, errOut.String())
	}
	if !strings.Contains(out.String(), "Analysis failed: issue_analysis stage: model call: openrouter error: quota exceeded") {
		t.Fatalf("expected failure message, got %q", out.String())
	}
	if strings.Count(out.String(), "1. Mayor") != 2 {
		t.Fatalf("expected race to stay available, got %q", out.String())
	}
}

func TestRunCommandDataFileArgs(t *testing.T) {
	dir, configPath := writeProject(t, "history:\n  enabled: false\n")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(other, []byte(`{"Sheriff": [{"candidates": "Cy Diaz", "party": "LIB"}]}`), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	stubServices(t, llm.Func(func(context.Context, llm.Request) (string, error) { return "", nil }), &cannedSearcher{})

	var out, errOut bytes.Buffer
	code := Run([]string{"run", "--config", configPath, other}, strings.NewReader("q\n"), &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, errOut.String())
	}
	if !strings.Contains(out.String(), "1. Sheriff\n") || strings.Contains(out.String(), "Mayor") {
		t.Fatalf("expected only Sheriff, got %q", out.String())
	}
}

func TestRunCommandInvalidUIMode(t *testing.T) {
	_, configPath := writeProject(t, "")
	var out, errOut bytes.Buffer
	code := Run([]string{"run", "--config", configPath, "--ui", "fancy"}, strings.NewReader(""), &out, &errOut)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "invalid ui mode") {
		t.Fatalf("expected ui mode error, got %q", errOut.String())
	}
}

func TestRunCommandMissingAPIKey(t *testing.T) {
	_, configPath := writeProject(t, "history:\n  enabled: false\n")
	t.Setenv(llm.EnvAPIKey, "")
	var out, errOut bytes.Buffer
	code := Run([]string{"run", "--config", configPath}, strings.NewReader("q\n"), &out, &errOut)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errOut.String(), llm.EnvAPIKey) {
		t.Fatalf("expected api key error, got %q", errOut.String())
	}
}
