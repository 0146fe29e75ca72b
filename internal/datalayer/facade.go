// Package datalayer is the single entry point the API surface talks to.
// It routes each request to the right sport adapter, fetches and
// normalizes market odds, runs edge detection, and keeps best-effort
// snapshots. Callers never see a provider client or a raw provider error.
package datalayer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/edge"
	"github.com/fortuna/vantage/internal/metrics"
	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/odds"
	"github.com/fortuna/vantage/internal/provider/oddsfeed"
	"github.com/fortuna/vantage/internal/snapshot"
)

// OddsSource abstracts the odds provider client for testing.
type OddsSource interface {
	Configured() bool
	Odds(ctx context.Context, q oddsfeed.OddsQuery) ([]oddsfeed.EventOdds, error)
}

// Signal is one emitted value edge, as delivered to stream subscribers.
type Signal struct {
	Sport     model.Sport       `json:"sport"`
	HomeTeam  string            `json:"home_team"`
	AwayTeam  string            `json:"away_team"`
	ModelProb model.Probability `json:"model_prob"`
	Edge      model.ValueEdge   `json:"edge"`
	At        time.Time         `json:"at"`
}

// sportKeys maps canonical sports onto the odds provider's sport keys.
var sportKeys = map[model.Sport]string{
	model.SportBasketball: "basketball_nba",
	model.SportSoccer:     "soccer_epl",
	model.SportMMA:        "mma_mixed_martial_arts",
}

// Facade routes requests across sport adapters and the odds pipeline.
type Facade struct {
	adapters map[model.Sport]adapter.SportAdapter
	odds     OddsSource
	engine   *edge.Engine
	metrics  *metrics.DataMetrics
	snaps    *snapshot.Store

	mu       sync.RWMutex
	onSignal func(Signal)
}

// Option configures the facade.
type Option func(*Facade)

// WithOddsSource wires the odds provider client.
func WithOddsSource(src OddsSource) Option {
	return func(f *Facade) { f.odds = src }
}

// WithEngine overrides the default edge engine.
func WithEngine(e *edge.Engine) Option {
	return func(f *Facade) { f.engine = e }
}

// WithSnapshots wires the best-effort snapshot store.
func WithSnapshots(s *snapshot.Store) Option {
	return func(f *Facade) { f.snaps = s }
}

// WithMetrics overrides the default metrics collector.
func WithMetrics(m *metrics.DataMetrics) Option {
	return func(f *Facade) { f.metrics = m }
}

// New creates a facade over the given adapters.
func New(adapters []adapter.SportAdapter, opts ...Option) *Facade {
	f := &Facade{
		adapters: make(map[model.Sport]adapter.SportAdapter, len(adapters)),
		engine:   edge.New(nil),
		metrics:  metrics.Default(),
	}
	for _, a := range adapters {
		f.adapters[a.Sport()] = a
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnSignal registers the callback invoked for every non-none edge the
// facade computes. At most one callback; the stream hub fans out.
func (f *Facade) OnSignal(fn func(Signal)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSignal = fn
}

// Sports lists the sports with a registered adapter.
func (f *Facade) Sports() []model.Sport {
	sports := make([]model.Sport, 0, len(f.adapters))
	for s := range f.adapters {
		sports = append(sports, s)
	}
	return sports
}

// adapterFor selects the adapter and enforces the availability check
// before any network call is attempted.
func (f *Facade) adapterFor(sport model.Sport) (adapter.SportAdapter, *adapter.Error) {
	a, ok := f.adapters[sport]
	if !ok {
		return nil, adapter.InvalidQuery("unsupported sport %q", sport)
	}
	if !a.IsAvailable() {
		return nil, adapter.Unavailable("%s adapter is not configured", sport)
	}
	return a, nil
}

// opError stamps sport and operation context onto an adapter error so a
// caller three layers up still knows where it came from.
func opError(sport model.Sport, op string, err error) *adapter.Error {
	ae := adapter.AsError(err)
	return &adapter.Error{Code: ae.Code, Message: fmt.Sprintf("%s %s: %s", sport, op, ae.Message)}
}

func (f *Facade) record(sport model.Sport, op string, start time.Time, err error) {
	code := "ok"
	if err != nil {
		code = string(adapter.AsError(err).Code)
	}
	f.metrics.RecordOp(string(sport), op, code, time.Since(start).Seconds())
}

// ResolveTeam resolves a free-text team name for one sport.
func (f *Facade) ResolveTeam(ctx context.Context, sport model.Sport, q adapter.TeamQuery) (model.Team, error) {
	start := time.Now()
	a, aerr := f.adapterFor(sport)
	if aerr != nil {
		f.record(sport, "resolve_team", start, aerr)
		return model.Team{}, aerr
	}
	team, err := a.FindTeam(ctx, q)
	f.record(sport, "resolve_team", start, err)
	if err != nil {
		return model.Team{}, opError(sport, "resolve_team", err)
	}
	return team, nil
}

// GetMatches lists fixtures for one sport.
func (f *Facade) GetMatches(ctx context.Context, sport model.Sport, q adapter.MatchQuery) ([]model.Match, error) {
	start := time.Now()
	a, aerr := f.adapterFor(sport)
	if aerr != nil {
		f.record(sport, "get_matches", start, aerr)
		return nil, aerr
	}
	matches, err := a.GetMatches(ctx, q)
	f.record(sport, "get_matches", start, err)
	if err != nil {
		return nil, opError(sport, "get_matches", err)
	}
	return matches, nil
}

// GetTeamStats returns a team's season aggregate record.
func (f *Facade) GetTeamStats(ctx context.Context, sport model.Sport, q adapter.StatsQuery) (model.TeamStats, error) {
	start := time.Now()
	a, aerr := f.adapterFor(sport)
	if aerr != nil {
		f.record(sport, "get_team_stats", start, aerr)
		return model.TeamStats{}, aerr
	}
	stats, err := a.GetTeamStats(ctx, q)
	f.record(sport, "get_team_stats", start, err)
	if err != nil {
		return model.TeamStats{}, opError(sport, "get_team_stats", err)
	}
	return stats, nil
}

// GetRecentForm returns a team's latest games with a recomputed summary.
func (f *Facade) GetRecentForm(ctx context.Context, sport model.Sport, teamID string, limit int) (model.RecentGames, error) {
	start := time.Now()
	a, aerr := f.adapterFor(sport)
	if aerr != nil {
		f.record(sport, "get_recent_form", start, aerr)
		return model.RecentGames{}, aerr
	}
	games, err := a.GetRecentGames(ctx, teamID, limit)
	f.record(sport, "get_recent_form", start, err)
	if err != nil {
		return model.RecentGames{}, opError(sport, "get_recent_form", err)
	}
	return games, nil
}

// GetHeadToHead returns the pairwise history of two teams.
func (f *Facade) GetHeadToHead(ctx context.Context, sport model.Sport, q adapter.H2HQuery) (model.H2H, error) {
	start := time.Now()
	a, aerr := f.adapterFor(sport)
	if aerr != nil {
		f.record(sport, "get_h2h", start, aerr)
		return model.H2H{}, aerr
	}
	h2h, err := a.GetH2H(ctx, q)
	f.record(sport, "get_h2h", start, err)
	if err != nil {
		return model.H2H{}, opError(sport, "get_h2h", err)
	}
	return h2h, nil
}

// GetInjuries returns the current injury report for a team.
func (f *Facade) GetInjuries(ctx context.Context, sport model.Sport, team string) ([]model.Injury, error) {
	start := time.Now()
	a, aerr := f.adapterFor(sport)
	if aerr != nil {
		f.record(sport, "get_injuries", start, aerr)
		return nil, aerr
	}
	injuries, err := a.GetInjuries(ctx, team)
	f.record(sport, "get_injuries", start, err)
	if err != nil {
		return nil, opError(sport, "get_injuries", err)
	}
	return injuries, nil
}

// GetOdds fetches and normalizes bookmaker quotes for one pairing. The
// result is vig-free per book; the raw decimal prices never leave here.
// markets narrows the quoted market kinds (h2h, spreads, totals); empty
// means all three.
func (f *Facade) GetOdds(ctx context.Context, sport model.Sport, home, away string, markets []string) ([]odds.BookIntel, error) {
	start := time.Now()
	books, err := f.fetchOdds(ctx, sport, home, away, markets)
	f.record(sport, "get_odds", start, err)
	return books, err
}

func (f *Facade) fetchOdds(ctx context.Context, sport model.Sport, home, away string, markets []string) ([]odds.BookIntel, error) {
	key, ok := sportKeys[sport]
	if !ok {
		return nil, adapter.InvalidQuery("unsupported sport %q", sport)
	}
	if f.odds == nil || !f.odds.Configured() {
		return nil, adapter.Unavailable("odds provider is not configured")
	}
	if home == "" || away == "" {
		return nil, adapter.InvalidQuery("both home and away teams are required")
	}

	events, err := f.odds.Odds(ctx, oddsfeed.OddsQuery{
		Sport:    key,
		HomeTeam: home,
		AwayTeam: away,
		Markets:  markets,
	})
	if err != nil {
		return nil, opError(sport, "get_odds", err)
	}
	if len(events) == 0 {
		return nil, opError(sport, "get_odds", adapter.NotFound("no odds for %s vs %s", home, away))
	}

	// The pairing filter can still leave several events (reschedules);
	// the first is the soonest per provider ordering.
	books := odds.NormalizeBooks(oddsfeed.ParseEvent(events[0]))
	if len(books) == 0 {
		return nil, opError(sport, "get_odds", adapter.APIError(fmt.Errorf("no bookmaker quoted a usable market")))
	}

	if f.snaps != nil {
		if err := f.snaps.SaveOdds(ctx, sport, home, away, books); err != nil {
			log.Printf("[datalayer] odds snapshot dropped: %v", err)
		}
	}
	return books, nil
}

// ComputeEdge fetches odds for the pairing, aggregates the books into one
// implied distribution, and grades the divergence from the caller's model
// probabilities. Non-none signals are persisted and streamed.
func (f *Facade) ComputeEdge(ctx context.Context, sport model.Sport, home, away string, modelProb model.Probability) (model.ValueEdge, error) {
	start := time.Now()
	signal, err := f.computeEdge(ctx, sport, home, away, modelProb)
	f.record(sport, "compute_edge", start, err)
	return signal, err
}

func (f *Facade) computeEdge(ctx context.Context, sport model.Sport, home, away string, modelProb model.Probability) (model.ValueEdge, error) {
	books, err := f.fetchOdds(ctx, sport, home, away, nil)
	if err != nil {
		return model.ValueEdge{}, err
	}

	signal, err := f.engine.ComputeMarketEdge(modelProb, books)
	if err != nil {
		return model.ValueEdge{}, opError(sport, "compute_edge", err)
	}

	if signal.Outcome != model.OutcomeNone {
		f.metrics.RecordSignal(string(signal.Outcome), string(signal.Strength), signal.EdgePercent)
		if f.snaps != nil {
			if err := f.snaps.SaveSignal(ctx, sport, home, away, modelProb, signal); err != nil {
				log.Printf("[datalayer] signal snapshot dropped: %v", err)
			}
		}
		f.emit(Signal{
			Sport:     sport,
			HomeTeam:  home,
			AwayTeam:  away,
			ModelProb: modelProb,
			Edge:      signal,
			At:        time.Now().UTC(),
		})
	}
	return signal, nil
}

func (f *Facade) emit(sig Signal) {
	f.mu.RLock()
	fn := f.onSignal
	f.mu.RUnlock()
	if fn != nil {
		fn(sig)
	}
}

// RecentSignals returns persisted signals, newest first.
func (f *Facade) RecentSignals(ctx context.Context, limit int) ([]snapshot.SignalRecord, error) {
	if f.snaps == nil {
		return nil, adapter.Unavailable("snapshot store is not configured")
	}
	records, err := f.snaps.RecentSignals(ctx, limit)
	if err != nil {
		return nil, adapter.APIError(err)
	}
	return records, nil
}
