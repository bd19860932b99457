package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider with the Google Gen AI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider connects a Gemini API client. baseURL overrides the
// service endpoint when set.
func NewGeminiProvider(ctx context.Context, model, apiKey, baseURL string, httpClient *http.Client) (*GeminiProvider, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if strings.TrimSpace(baseURL) != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, request Request) (string, error) {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(request.Temperature))}
	if request.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(request.MaxTokens)
	}
	if strings.TrimSpace(request.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(request.System, genai.RoleUser)
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(request.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty completion")
	}
	return text, nil
}
