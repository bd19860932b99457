package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the DuckDuckGo HTML endpoint. It needs no credential.
type DuckDuckGo struct {
	BaseURL   string
	Client    HTTPDoer
	UserAgent string
}

// NewDuckDuckGo builds a DuckDuckGo searcher; empty arguments take defaults.
func NewDuckDuckGo(baseURL string, client HTTPDoer) *DuckDuckGo {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultDuckDuckGoURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &DuckDuckGo{
		BaseURL:   baseURL,
		Client:    client,
		UserAgent: "Mozilla/5.0 (compatible; ballot/1.0)",
	}
}

// Search posts the query form and parses organic results from the page.
func (d *DuckDuckGo) Search(ctx context.Context, query Query) ([]Result, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, fmt.Errorf("query is required")
	}
	form := url.Values{}
	form.Set("q", query.Text)
	if query.Region != "" {
		form.Set("kl", query.Region)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("duckduckgo returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo html: %w", err)
	}
	return limit(parseDuckDuckGo(doc), query.MaxResults), nil
}

func parseDuckDuckGo(doc *goquery.Document) []Result {
	var results []Result
	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("result--ad") {
			return
		}
		link := sel.Find("a.result__a").First()
		body := collapse(sel.Find(".result__snippet").First().Text())
		if body == "" {
			return
		}
		href, _ := link.Attr("href")
		results = append(results, Result{
			Title: collapse(link.Text()),
			URL:   unwrapRedirect(href),
			Body:  body,
		})
	})
	return results
}

// unwrapRedirect extracts the target of a //duckduckgo.com/l/?uddg= link.
func unwrapRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
