// Package oddsfeed is the client for the odds provider: an HTTP JSON API
// returning bookmaker-level market quotes per match. Prices are decimal
// odds and are kept in decimal form until the normalizer converts them.
package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the odds provider API root.
	DefaultBaseURL = "https://api.oddsfeed.io/v4"

	defaultRateLimit = 3.0
	defaultBurst     = 3
	defaultTimeout   = 8 * time.Second
)

// Client handles odds provider requests.
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

// NewClient creates an odds provider client.
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

// OddsQuery selects the match and markets to quote.
type OddsQuery struct {
	Sport    string
	HomeTeam string
	AwayTeam string
	Markets  []string // h2h, spreads, totals; empty means all three
}

// Odds fetches bookmaker quotes for matches of a sport and filters to the
// requested pairing. The provider has no team-pair endpoint, so filtering
// happens client-side against its own team naming.
func (c *Client) Odds(ctx context.Context, q OddsQuery) ([]EventOdds, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	markets := q.Markets
	if len(markets) == 0 {
		markets = []string{"h2h", "spreads", "totals"}
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("markets", strings.Join(markets, ","))
	params.Set("oddsFormat", "decimal")

	u := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, url.PathEscape(q.Sport), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching odds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("odds endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var events []EventOdds
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding odds response: %w", err)
	}

	if q.HomeTeam == "" && q.AwayTeam == "" {
		return events, nil
	}

	var filtered []EventOdds
	for _, e := range events {
		if teamMatches(e.HomeTeam, q.HomeTeam) && teamMatches(e.AwayTeam, q.AwayTeam) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func teamMatches(provider, query string) bool {
	if query == "" {
		return true
	}
	p := strings.ToLower(provider)
	s := strings.ToLower(query)
	return strings.Contains(p, s) || strings.Contains(s, p)
}
