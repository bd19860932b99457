// Package search queries web search providers for text snippets.
package search

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// HTTPDoer abstracts HTTP clients used by providers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Query is a keyword search request.
type Query struct {
	Text       string
	MaxResults int
	Region     string
}

// Result is one search hit.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// Searcher runs keyword queries.
type Searcher interface {
	Search(ctx context.Context, query Query) ([]Result, error)
}

// EnvTavilyKey holds the Tavily credential.
const EnvTavilyKey = "TAVILY_API_KEY"

// New builds a searcher by provider name.
func New(provider string, client HTTPDoer) (Searcher, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "duckduckgo":
		return NewDuckDuckGo("", client), nil
	case "tavily":
		key := strings.TrimSpace(os.Getenv(EnvTavilyKey))
		if key == "" {
			return nil, fmt.Errorf("%s is required for the tavily search provider", EnvTavilyKey)
		}
		return NewTavily(key, "", client), nil
	default:
		return nil, fmt.Errorf("unsupported search provider %q", provider)
	}
}

// limit trims results to max when max is positive.
func limit(results []Result, max int) []Result {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
