package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"courtside/internal/logging"
)

const defaultBaseURL = "https://stats.nba.com/stats"

// GameLogCache stores resolved players and game logs across turns. The
// statcache package provides the sqlite-backed implementation; a nil
// cache disables caching.
type GameLogCache interface {
	GetPlayer(name string) (Player, bool)
	PutPlayer(name string, p Player)
	GetGameLog(playerID int64, season string) ([]GameEntry, bool)
	PutGameLog(playerID int64, season string, entries []GameEntry)
}

// Client talks to the stats endpoints. Zero-value fields are filled in
// by NewClient.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	season      string
	seasonType  string
	window      int
	retries     int
	backoffUnit time.Duration
	cache       GameLogCache

	// sleep is swapped out in tests so retry behavior is observable
	// without real delays.
	sleep func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the stats endpoint root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithSeasonType overrides the season type ("Regular Season",
// "Playoffs").
func WithSeasonType(st string) Option {
	return func(c *Client) {
		if st != "" {
			c.seasonType = st
		}
	}
}

// WithCache attaches a cross-turn cache.
func WithCache(cache GameLogCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithRetry sets the attempt ceiling and linear backoff unit.
func WithRetry(attempts int, unit time.Duration) Option {
	return func(c *Client) {
		c.retries = attempts
		c.backoffUnit = unit
	}
}

// WithWindow sets the game-log truncation window.
func WithWindow(n int) Option {
	return func(c *Client) { c.window = n }
}

// WithSleep replaces the inter-attempt sleep function.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleep = fn }
}

// NewClient builds a stats client scoped to one season.
func NewClient(season string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     defaultBaseURL,
		season:      season,
		seasonType:  "Regular Season",
		window:      5,
		retries:     4,
		backoffUnit: 3 * time.Second,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.window <= 0 {
		c.window = 5
	}
	if c.retries <= 0 {
		c.retries = 4
	}
	return c
}

// Season returns the season label the client is scoped to.
func (c *Client) Season() string {
	return c.season
}

// get issues one request to an endpoint and decodes the tabular
// envelope. The stats service rejects requests without browser-like
// headers.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (statsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return statsResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.StatsWarn("%s request failed: %v", endpoint, err)
		return statsResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return statsResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.StatsWarn("%s returned status %d", endpoint, resp.StatusCode)
		return statsResponse{}, fmt.Errorf("stats request failed with status %d", resp.StatusCode)
	}

	var decoded statsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return statsResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	logging.StatsDebug("%s completed in %v result_sets=%d", endpoint, time.Since(start), len(decoded.ResultSets))
	return decoded, nil
}
