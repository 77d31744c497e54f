// Package retrieval implements the web research stage: search, page text
// extraction, reranking, and LLM synthesis of findings.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	defaultTavilyEndpoint = "https://api.tavily.com"
	// maxExtractChars caps extracted page text so a single giant article
	// cannot blow up prompt sizes downstream.
	maxExtractChars = 15000
)

// SearchHit is one raw Tavily result.
type SearchHit struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Client calls the Tavily search API and fetches result pages. Outbound
// requests are paced through a rate limiter to respect the provider's limits.
type Client struct {
	Endpoint string
	APIKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient builds a search client with a 30s request timeout and roughly one
// outbound request per 700ms.
func NewClient(apiKey string) *Client {
	return &Client{
		Endpoint: defaultTavilyEndpoint,
		APIKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(700*time.Millisecond), 1),
	}
}

type searchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	MaxResults     int      `json:"max_results"`
	IncludeAnswers bool     `json:"include_answers"`
	IncludeImages  bool     `json:"include_images"`
	IncludeRaw     bool     `json:"include_raw_content"`
	IncludeDomains []string `json:"include_domains"`
	ExcludeDomains []string `json:"exclude_domains"`
}

type searchResponse struct {
	Results []SearchHit `json:"results"`
}

// Search runs one query and returns up to maxResults hits. The provider may
// return fewer than requested. Transport failures are returned to the caller
// and are fatal to the pipeline invocation; retry policy belongs here, not in
// the loop controller, and none is applied.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchHit, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("tavily api key is not set")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	payload := searchRequest{
		APIKey:         c.APIKey,
		Query:          query,
		SearchDepth:    "advanced",
		MaxResults:     maxResults,
		IncludeDomains: []string{},
		ExcludeDomains: []string{},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tavily error: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw.Results, nil
}

// FetchText downloads a result page and extracts readable text. It is best
// effort by design: any failure yields an empty string, and the researcher
// filters empty-text sources before use.
func (c *Client) FetchText(ctx context.Context, url string) string {
	if err := c.limiter.Wait(ctx); err != nil {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := c.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return ""
	}
	text := extractText(io.LimitReader(resp.Body, 4<<20))
	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}
	return text
}

// extractText walks an HTML document collecting visible text while skipping
// script, style, and noscript subtrees.
func extractText(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.Join(parts, " ")
}
