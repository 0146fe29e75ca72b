// Package injurywire is the client for the unofficial injury aggregator.
// The feed is unauthenticated and its schema is not contractually stable,
// so parsing is defensive: field names drift between snapshots and the
// endpoint intermittently serves a bot-check HTML page instead of JSON.
// When that happens the client falls back to rendering the page in a
// headless browser and scraping the injury table.
package injurywire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// DefaultBaseURL is the aggregator root.
	DefaultBaseURL = "https://injurywire.net"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout = 8 * time.Second
	renderTimeout  = 20 * time.Second
)

// Client fetches injury reports, preferring the JSON endpoint and scraping
// the rendered page only when the JSON shape breaks.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Headless browser allocator, created lazily on first fallback. The
	// client is shared across adapters, so access goes through allocMu.
	allocMu     sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	renderOff   bool
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

// WithoutRenderFallback disables the headless-browser fallback (tests,
// environments without Chrome).
func WithoutRenderFallback() Option {
	return func(c *Client) { c.renderOff = true }
}

// NewClient creates an aggregator client. No credential is needed.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the headless browser if one was started.
func (c *Client) Close() {
	c.allocMu.Lock()
	defer c.allocMu.Unlock()
	if c.allocCancel != nil {
		c.allocCancel()
		c.allocCancel = nil
		c.allocCtx = nil
	}
}

// allocator returns the shared browser allocator, starting it on first use.
func (c *Client) allocator() context.Context {
	c.allocMu.Lock()
	defer c.allocMu.Unlock()
	if c.allocCtx == nil {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
		)
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	return c.allocCtx
}

// TeamInjuries fetches the current injury report for one team.
func (c *Client) TeamInjuries(ctx context.Context, sport, team string) ([]Report, error) {
	params := url.Values{}
	params.Set("sport", sport)
	params.Set("team", team)
	u := c.baseURL + "/api/injuries?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching injuries: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading injuries response: %w", err)
	}

	// Bot-check pages come back as HTML with a 200. Same trick ESPN pulls
	// on non-browser clients.
	if resp.StatusCode != http.StatusOK || (len(body) > 0 && body[0] == '<') {
		log.Printf("[injurywire] JSON endpoint unusable (status %d), trying rendered page", resp.StatusCode)
		return c.scrapeInjuries(ctx, sport, team)
	}

	reports, err := decodeReports(body)
	if err != nil {
		log.Printf("[injurywire] JSON decode failed: %v, trying rendered page", err)
		return c.scrapeInjuries(ctx, sport, team)
	}
	return reports, nil
}

// decodeReports tolerates both a bare array and a {"injuries": [...]}
// wrapper, and loose field naming inside each entry.
func decodeReports(body []byte) ([]Report, error) {
	var entries []map[string]interface{}
	if err := json.Unmarshal(body, &entries); err != nil {
		var wrapper struct {
			Injuries []map[string]interface{} `json:"injuries"`
		}
		if err2 := json.Unmarshal(body, &wrapper); err2 != nil || wrapper.Injuries == nil {
			return nil, err
		}
		entries = wrapper.Injuries
	}

	reports := make([]Report, 0, len(entries))
	for _, e := range entries {
		r := Report{
			Player:      firstString(e, "player", "player_name", "name"),
			Team:        firstString(e, "team", "team_name"),
			Status:      firstString(e, "status", "designation"),
			Type:        firstString(e, "injury", "type", "injury_type"),
			Description: firstString(e, "description", "note", "comment"),
			Return:      firstString(e, "expected_return", "return", "return_date"),
		}
		if r.Player == "" {
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func firstString(entry map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := entry[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// scrapeInjuries renders the aggregator's injury page headlessly and parses
// the table out of the DOM.
func (c *Client) scrapeInjuries(ctx context.Context, sport, team string) ([]Report, error) {
	if c.renderOff {
		return nil, fmt.Errorf("injury feed returned non-JSON and render fallback is disabled")
	}

	tabCtx, cancel := chromedp.NewContext(c.allocator())
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, renderTimeout)
	defer cancelTimeout()

	pageURL := fmt.Sprintf("%s/%s/injuries?team=%s", c.baseURL, url.PathEscape(sport), url.QueryEscape(team))

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("table.injury-report", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering injury page: %w", err)
	}

	return parseInjuryHTML(html)
}
