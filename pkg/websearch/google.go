package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/mediconnect/clinic-api/pkg/circuitbreaker"
)

const apiURL = "https://www.googleapis.com/customsearch/v1"

// Result is a single web search hit
type Result struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"display_link"`
}

// Config holds the Google Custom Search credentials and limits
type Config struct {
	APIKey   string
	EngineID string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client queries the Google Custom Search API. Lookups degrade to an
// empty result set on any failure; the directory search must never fail
// because the web collaborator is down.
type Client struct {
	cfg     Config
	http    *http.Client
	cache   *gocache.Cache
	breaker *circuitbreaker.Breaker
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
		}),
		logger: logger,
	}
}

// Enabled reports whether credentials are configured
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != "" && c.cfg.EngineID != ""
}

// Search returns up to limit web results for the query. It never
// returns an error: timeouts, HTTP failures and malformed payloads all
// yield an empty slice.
func (c *Client) Search(ctx context.Context, query string, limit int) []Result {
	if !c.Enabled() || query == "" {
		return nil
	}
	if limit <= 0 || limit > 10 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("%s:%d", query, limit)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]Result)
	}

	var results []Result
	err := c.breaker.Execute(func() error {
		var fetchErr error
		results, fetchErr = c.fetch(ctx, query, limit)
		return fetchErr
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("web search unavailable")
		return nil
	}

	c.cache.Set(cacheKey, results, gocache.DefaultExpiration)
	return results
}

func (c *Client) fetch(ctx context.Context, query string, limit int) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("cx", c.cfg.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			Snippet     string `json:"snippet"`
			DisplayLink string `json:"displayLink"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, Result{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
		})
	}
	return results, nil
}
