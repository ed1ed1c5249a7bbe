package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/praxis-intel/argus/internal/circuitbreaker"
	"github.com/praxis-intel/argus/internal/config"
)

// Request describes one search call against the web search collaborator.
type Request struct {
	Query      string `json:"query"`
	Depth      string `json:"search_depth,omitempty"` // "basic" or "advanced"
	MaxResults int    `json:"max_results,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Result is a single document returned by the collaborator.
type Result struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	URL           string  `json:"url"`
	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
}

// Response is the search envelope.
type Response struct {
	Success bool     `json:"success"`
	Results []Result `json:"results"`
	Answer  string   `json:"answer,omitempty"`
}

// ExtractResponse is the extraction envelope.
type ExtractResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client talks to the search/extraction API. Calls are rate limited and
// individually timeout bounded; a timeout surfaces as an error, never a hang.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.Breaker
	logger  *zap.Logger
}

// NewClient builds a search client from config.
func NewClient(cfg config.SearchConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		breaker: circuitbreaker.New("search", circuitbreaker.DefaultSettings(), logger),
		logger:  logger,
	}
}

// Search executes one query.
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}
	if req.Depth == "" {
		req.Depth = "basic"
	}

	var out Response
	if err := c.post(ctx, "/search", req, &out); err != nil {
		return nil, err
	}
	c.logger.Debug("Search completed",
		zap.String("query", req.Query),
		zap.Int("results", len(out.Results)),
	)
	return &out, nil
}

// Extract fetches page content for the given URLs.
func (c *Client) Extract(ctx context.Context, urls []string, format string) (*ExtractResponse, error) {
	if format == "" {
		format = "markdown"
	}
	body := map[string]any{"urls": urls, "format": format}

	var out ExtractResponse
	if err := c.post(ctx, "/extract", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("search: rate limit wait: %w", err)
	}
	return c.breaker.Do(func() error {
		return c.doPost(ctx, path, body, out)
	})
}

func (c *Client) doPost(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("search: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("search: call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("search: %s returned HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("search: decode %s response: %w", path, err)
	}
	return nil
}
