// Package fightapi is the client for the combat-sports provider: an HTTP
// JSON API with fighter, fight and record endpoints.
package fightapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the combat-sports provider API root.
	DefaultBaseURL = "https://api.fightdata.io/v1"

	apiKeyHeader = "x-api-key"

	defaultRateLimit = 5.0
	defaultBurst     = 5
	defaultTimeout   = 8 * time.Second
)

// Client handles combat-sports provider requests.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a combat-sports provider client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present. No network call.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// SearchFighters looks up fighters by name. The provider matches loosely,
// including nicknames, and may return several entries.
func (c *Client) SearchFighters(ctx context.Context, name string) ([]Fighter, error) {
	params := url.Values{}
	params.Set("name", name)

	var fighters []Fighter
	if err := c.get(ctx, "/fighters", params, &fighters); err != nil {
		return nil, err
	}
	return fighters, nil
}

// FighterRecord fetches the career record for one fighter.
func (c *Client) FighterRecord(ctx context.Context, fighterID string) (*Record, error) {
	var record Record
	if err := c.get(ctx, "/fighters/"+url.PathEscape(fighterID)+"/record", nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Fights fetches a fighter's fights, most recent first. limit 0 means the
// provider default.
func (c *Client) Fights(ctx context.Context, fighterID string, limit int) ([]Fight, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var fights []Fight
	if err := c.get(ctx, "/fighters/"+url.PathEscape(fighterID)+"/fights", params, &fights); err != nil {
		return nil, err
	}
	return fights, nil
}

// Events fetches fight cards on a date (YYYY-MM-DD), or the upcoming cards
// when date is empty.
func (c *Client) Events(ctx context.Context, date string) ([]Event, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}

	var events []Event
	if err := c.get(ctx, "/events", params, &events); err != nil {
		return nil, err
	}
	return events, nil
}
