// Package llm sends single-turn prompts to hosted language models.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"ballot/internal/config"
)

// EnvAPIKey names the environment variable holding the model credential.
const EnvAPIKey = "LLM_API_KEY"

// HTTPDoer abstracts HTTP clients used by providers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is one prompt and its response limits.
type Request struct {
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float64
}

// Provider completes a prompt into unstructured text.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// APIKeyFromEnv returns the trimmed model credential.
func APIKeyFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvAPIKey))
}

// ProviderFromConfig builds the provider named by cfg.
func ProviderFromConfig(ctx context.Context, cfg config.ModelConfig, apiKey string, client *http.Client) (Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s is required", EnvAPIKey)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openrouter":
		var doer HTTPDoer
		if client != nil {
			doer = client
		}
		return NewOpenRouterProvider(cfg.Model, apiKey, cfg.BaseURL, doer)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Model, apiKey, cfg.BaseURL, client)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
