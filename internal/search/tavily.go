package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultTavilyURL = "https://api.tavily.com/search"

// Tavily queries the Tavily search API.
type Tavily struct {
	APIKey  string
	BaseURL string
	Client  HTTPDoer
}

// NewTavily builds a Tavily searcher; empty baseURL and nil client take defaults.
func NewTavily(apiKey, baseURL string, client HTTPDoer) *Tavily {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultTavilyURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Tavily{APIKey: apiKey, BaseURL: baseURL, Client: client}
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search posts the query and maps results to snippets.
func (t *Tavily) Search(ctx context.Context, query Query) ([]Result, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, fmt.Errorf("query is required")
	}
	payload, err := json.Marshal(tavilyRequest{
		APIKey:      t.APIKey,
		Query:       query.Text,
		SearchDepth: "basic",
		MaxResults:  query.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tavily returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	results := make([]Result, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Body: r.Content})
	}
	return limit(results, query.MaxResults), nil
}
