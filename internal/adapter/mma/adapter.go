// Package mma adapts the combat-sports provider to the uniform sport
// contract. Fighters stand in for teams; there is no season, no draw odds
// and no injury feed.
package mma

import (
	"context"
	"strconv"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/cache"
	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/provider/fightapi"
	"github.com/fortuna/vantage/internal/resolve"
)

const defaultRecentLimit = 5

// Adapter serves combat-sports data.
type Adapter struct {
	fights *fightapi.Client
	cache  cache.Store
}

// New creates the MMA adapter.
func New(fights *fightapi.Client, store cache.Store) *Adapter {
	return &Adapter{fights: fights, cache: store}
}

// Sport implements adapter.SportAdapter.
func (a *Adapter) Sport() model.Sport {
	return model.SportMMA
}

// IsAvailable reports whether the provider credential is configured.
func (a *Adapter) IsAvailable() bool {
	return a.fights.Configured()
}

// findFighter resolves a free-text name, nicknames included, to one
// provider fighter.
func (a *Adapter) findFighter(ctx context.Context, name string) (fightapi.Fighter, error) {
	key := cache.Key("mma", "fighter", name)
	var cached fightapi.Fighter
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	fighters, err := a.fights.SearchFighters(ctx, name)
	if err != nil {
		return fightapi.Fighter{}, adapter.APIError(err)
	}

	candidates := make([]resolve.Candidate, 0, len(fighters))
	for _, f := range fighters {
		candidates = append(candidates, resolve.Candidate{
			ID:      f.ID,
			Name:    f.Name,
			Aliases: []string{f.Nickname},
			League:  f.League,
		})
	}

	match, ok := resolve.Resolve(name, candidates)
	if !ok {
		return fightapi.Fighter{}, adapter.NotFound("no fighter matching %q", name)
	}

	for _, f := range fighters {
		if f.ID == match.ID {
			adapter.CachePut(ctx, a.cache, key, f, adapter.TTLTeam)
			return f, nil
		}
	}
	return fightapi.Fighter{}, adapter.NotFound("no fighter matching %q", name)
}

// FindTeam implements adapter.SportAdapter.
func (a *Adapter) FindTeam(ctx context.Context, q adapter.TeamQuery) (model.Team, error) {
	if q.Name == "" {
		return model.Team{}, adapter.InvalidQuery("fighter name is required")
	}
	fighter, err := a.findFighter(ctx, q.Name)
	if err != nil {
		return model.Team{}, adapter.AsError(err)
	}
	return fightapi.ParseFighter(fighter), nil
}

// GetMatches implements adapter.SportAdapter. Date selects fight cards on
// that day; a fighter name selects their bouts; with neither, the
// upcoming cards are returned.
func (a *Adapter) GetMatches(ctx context.Context, q adapter.MatchQuery) ([]model.Match, error) {
	if q.Team != "" {
		fighter, err := a.findFighter(ctx, q.Team)
		if err != nil {
			return nil, adapter.AsError(err)
		}
		fights, err := a.fights.Fights(ctx, fighter.ID, 0)
		if err != nil {
			return nil, adapter.APIError(err)
		}
		return fightapi.ParseFights(fights), nil
	}

	key := cache.Key("mma", "events", q.Date)
	var cached []model.Match
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	events, err := a.fights.Events(ctx, q.Date)
	if err != nil {
		return nil, adapter.APIError(err)
	}

	var matches []model.Match
	for _, event := range events {
		matches = append(matches, fightapi.ParseFights(event.Bouts)...)
	}
	adapter.CachePut(ctx, a.cache, key, matches, adapter.TTLMatches)
	return matches, nil
}

// GetTeamStats implements adapter.SportAdapter. Season does not apply to
// a career record and is ignored.
func (a *Adapter) GetTeamStats(ctx context.Context, q adapter.StatsQuery) (model.TeamStats, error) {
	if q.TeamID == "" {
		return model.TeamStats{}, adapter.InvalidQuery("fighter id is required")
	}

	key := cache.Key("mma", "record", q.TeamID)
	var cached model.TeamStats
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	record, err := a.fights.FighterRecord(ctx, q.TeamID)
	if err != nil {
		return model.TeamStats{}, adapter.APIError(err)
	}

	stats := fightapi.ParseRecord(fightapi.Fighter{ID: q.TeamID}, record)
	adapter.CachePut(ctx, a.cache, key, stats, adapter.TTLStats)
	return stats, nil
}

// GetRecentGames implements adapter.SportAdapter.
func (a *Adapter) GetRecentGames(ctx context.Context, teamID string, limit int) (model.RecentGames, error) {
	if teamID == "" {
		return model.RecentGames{}, adapter.InvalidQuery("fighter id is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	key := cache.Key("mma", "recent", teamID, strconv.Itoa(limit))
	var cached model.RecentGames
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	fights, err := a.fights.Fights(ctx, teamID, limit)
	if err != nil {
		return model.RecentGames{}, adapter.APIError(err)
	}

	games := fightapi.ParseFights(fights)
	recent := model.RecentGames{
		TeamID:  teamID,
		Games:   games,
		Summary: adapter.SummarizeRecent(teamID, games),
	}
	adapter.CachePut(ctx, a.cache, key, recent, adapter.TTLMatches)
	return recent, nil
}

// GetH2H implements adapter.SportAdapter. Both fighters resolve before
// any fight-list call.
func (a *Adapter) GetH2H(ctx context.Context, q adapter.H2HQuery) (model.H2H, error) {
	if q.Team1 == "" || q.Team2 == "" {
		return model.H2H{}, adapter.InvalidQuery("both fighter names are required")
	}

	f1, err := a.findFighter(ctx, q.Team1)
	if err != nil {
		return model.H2H{}, adapter.AsError(err)
	}
	f2, err := a.findFighter(ctx, q.Team2)
	if err != nil {
		return model.H2H{}, adapter.AsError(err)
	}

	key := cache.Key("mma", "h2h", pairKey(f1.ID, f2.ID))
	var cached model.H2H
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	fights, err := a.fights.Fights(ctx, f1.ID, 0)
	if err != nil {
		return model.H2H{}, adapter.APIError(err)
	}

	var meetings []model.Match
	for _, f := range fights {
		if f.OpponentID == f2.ID {
			meetings = append(meetings, fightapi.ParseFight(f))
		}
	}

	h2h := adapter.BuildH2H(fightapi.ParseFighter(f1), fightapi.ParseFighter(f2), meetings)
	adapter.CachePut(ctx, a.cache, key, h2h, adapter.TTLH2H)
	return h2h, nil
}

func pairKey(id1, id2 string) string {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return id1 + "-" + id2
}

// GetInjuries implements adapter.SportAdapter. Individual combat sports
// have no team injury report; the empty result is a success, not an
// error.
func (a *Adapter) GetInjuries(_ context.Context, _ string) ([]model.Injury, error) {
	return []model.Injury{}, nil
}
