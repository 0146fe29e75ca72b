// Package statsapi is the client for the statistics provider: an HTTP JSON
// API keyed by an API key header, covering teams, fixtures, standings and
// per-season team statistics. The provider enforces a daily quota in the
// hundreds of calls, so every request goes through a shared rate limiter.
package statsapi

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
	// DefaultBaseURL is the statistics provider API root.
	DefaultBaseURL = "https://v3.api-stats.io"

	// apiKeyHeader carries the credential on every request.
	apiKeyHeader = "x-apisports-key"

	// Quota-friendly defaults: the documented limit is well under one
	// request per second sustained.
	defaultRateLimit = 5.0
	defaultBurst     = 5

	defaultTimeout = 8 * time.Second
)

// Client handles statistics provider requests.
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

// WithRateLimit overrides the request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a statistics provider client. An empty apiKey is
// allowed; the owning adapter reports itself unavailable in that case.
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

// get performs one rate-limited GET and decodes the provider envelope into
// out.
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

// SearchTeams looks up teams by free-text name in one league scope.
func (c *Client) SearchTeams(ctx context.Context, league, search string) ([]TeamEntry, error) {
	params := url.Values{}
	params.Set("league", league)
	params.Set("search", search)

	var envelope teamsEnvelope
	if err := c.get(ctx, "/teams", params, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.providerError(); err != nil {
		return nil, err
	}
	return envelope.Response, nil
}

// FixturesQuery narrows a fixtures request. Zero-value fields are omitted.
type FixturesQuery struct {
	League string
	Season string
	TeamID string
	Date   string // YYYY-MM-DD
	H2H    string // "id1-id2" pairwise lookup
	Last   int    // most recent N finished fixtures for TeamID
}

// Fixtures fetches fixtures matching q.
func (c *Client) Fixtures(ctx context.Context, q FixturesQuery) ([]FixtureEntry, error) {
	params := url.Values{}
	if q.League != "" {
		params.Set("league", q.League)
	}
	if q.Season != "" {
		params.Set("season", q.Season)
	}
	if q.TeamID != "" {
		params.Set("team", q.TeamID)
	}
	if q.Date != "" {
		params.Set("date", q.Date)
	}
	if q.Last > 0 {
		params.Set("last", fmt.Sprintf("%d", q.Last))
	}

	path := "/fixtures"
	if q.H2H != "" {
		path = "/fixtures/headtohead"
		params.Set("h2h", q.H2H)
	}

	var envelope fixturesEnvelope
	if err := c.get(ctx, path, params, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.providerError(); err != nil {
		return nil, err
	}
	return envelope.Response, nil
}

// TeamStatistics fetches the per-season aggregate record for one team.
func (c *Client) TeamStatistics(ctx context.Context, league, season, teamID string) (*StatsEntry, error) {
	params := url.Values{}
	params.Set("league", league)
	params.Set("season", season)
	params.Set("team", teamID)

	var envelope statsEnvelope
	if err := c.get(ctx, "/teams/statistics", params, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.providerError(); err != nil {
		return nil, err
	}
	return &envelope.Response, nil
}
