// Package basketball adapts the statistics provider and the injury
// aggregator to the uniform sport contract for NBA basketball.
package basketball

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/cache"
	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/provider/injurywire"
	"github.com/fortuna/vantage/internal/provider/statsapi"
	"github.com/fortuna/vantage/internal/resolve"
)

const (
	// leagueID is the provider's NBA league identifier.
	leagueID   = "12"
	leagueName = "NBA"

	defaultRecentLimit = 10
)

// Adapter serves basketball data.
type Adapter struct {
	stats    *statsapi.Client
	injuries *injurywire.Client
	cache    cache.Store
}

// New creates the basketball adapter. The cache is injected, never
// ambient, so tests can supply a deterministic one.
func New(stats *statsapi.Client, injuries *injurywire.Client, store cache.Store) *Adapter {
	return &Adapter{stats: stats, injuries: injuries, cache: store}
}

// Sport implements adapter.SportAdapter.
func (a *Adapter) Sport() model.Sport {
	return model.SportBasketball
}

// IsAvailable reports whether the statistics credential is configured.
func (a *Adapter) IsAvailable() bool {
	return a.stats.Configured()
}

// currentSeason returns the provider's season label for today. The NBA
// season rolls over in October.
func currentSeason() string {
	now := time.Now()
	year := now.Year()
	if now.Month() >= time.October {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// FindTeam implements adapter.SportAdapter.
func (a *Adapter) FindTeam(ctx context.Context, q adapter.TeamQuery) (model.Team, error) {
	if q.Name == "" {
		return model.Team{}, adapter.InvalidQuery("team name is required")
	}

	key := cache.Key("basketball", "team", q.Name)
	var cached model.Team
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.SearchTeams(ctx, leagueID, q.Name)
	if err != nil {
		return model.Team{}, adapter.APIError(err)
	}

	candidates := make([]resolve.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, resolve.Candidate{
			ID:      strconv.Itoa(e.Team.ID),
			Name:    e.Team.Name,
			Aliases: []string{e.Team.Code},
			League:  leagueName,
		})
	}

	match, ok := resolve.Resolve(q.Name, candidates)
	if !ok {
		return model.Team{}, adapter.NotFound("no team matching %q", q.Name)
	}

	for _, e := range entries {
		if strconv.Itoa(e.Team.ID) == match.ID {
			team := statsapi.ParseTeam(model.SportBasketball, leagueName, e)
			adapter.CachePut(ctx, a.cache, key, team, adapter.TTLTeam)
			return team, nil
		}
	}
	return model.Team{}, adapter.NotFound("no team matching %q", q.Name)
}

// GetMatches implements adapter.SportAdapter. Date takes precedence over
// team; with neither, the current season's schedule is returned.
func (a *Adapter) GetMatches(ctx context.Context, q adapter.MatchQuery) ([]model.Match, error) {
	season := q.Season
	if season == "" {
		season = currentSeason()
	}

	fq := statsapi.FixturesQuery{League: leagueID, Season: season}
	switch {
	case q.Date != "":
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			return nil, adapter.InvalidQuery("invalid date %q (use YYYY-MM-DD)", q.Date)
		}
		fq.Date = q.Date
	case q.Team != "":
		team, err := a.FindTeam(ctx, adapter.TeamQuery{Name: q.Team})
		if err != nil {
			return nil, adapter.AsError(err)
		}
		fq.TeamID = team.ID
	}

	key := cache.Key("basketball", "matches", fq.Date, fq.TeamID, season)
	var cached []model.Match
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.Fixtures(ctx, fq)
	if err != nil {
		return nil, adapter.APIError(err)
	}

	matches := statsapi.ParseFixtures(model.SportBasketball, entries)
	adapter.CachePut(ctx, a.cache, key, matches, adapter.TTLMatches)
	return matches, nil
}

// GetTeamStats implements adapter.SportAdapter.
func (a *Adapter) GetTeamStats(ctx context.Context, q adapter.StatsQuery) (model.TeamStats, error) {
	if q.TeamID == "" {
		return model.TeamStats{}, adapter.InvalidQuery("team id is required")
	}
	season := q.Season
	if season == "" {
		season = currentSeason()
	}

	key := cache.Key("basketball", "stats", q.TeamID, season)
	var cached model.TeamStats
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entry, err := a.stats.TeamStatistics(ctx, leagueID, season, q.TeamID)
	if err != nil {
		return model.TeamStats{}, adapter.APIError(err)
	}

	stats := statsapi.ParseStats(model.SportBasketball, season, entry)
	stats.Extended = map[string]string{
		"avg_total_points": strconv.FormatFloat(stats.AvgFor+stats.AvgAgainst, 'f', 1, 64),
	}
	adapter.CachePut(ctx, a.cache, key, stats, adapter.TTLStats)
	return stats, nil
}

// GetRecentGames implements adapter.SportAdapter.
func (a *Adapter) GetRecentGames(ctx context.Context, teamID string, limit int) (model.RecentGames, error) {
	if teamID == "" {
		return model.RecentGames{}, adapter.InvalidQuery("team id is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	key := cache.Key("basketball", "recent", teamID, strconv.Itoa(limit))
	var cached model.RecentGames
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.Fixtures(ctx, statsapi.FixturesQuery{TeamID: teamID, Last: limit})
	if err != nil {
		return model.RecentGames{}, adapter.APIError(err)
	}

	games := statsapi.ParseFixtures(model.SportBasketball, entries)
	recent := model.RecentGames{
		TeamID:  teamID,
		Games:   games,
		Summary: adapter.SummarizeRecent(teamID, games),
	}
	adapter.CachePut(ctx, a.cache, key, recent, adapter.TTLMatches)
	return recent, nil
}

// GetH2H implements adapter.SportAdapter. Both names resolve before any
// pairwise call; a failed resolution fails fast.
func (a *Adapter) GetH2H(ctx context.Context, q adapter.H2HQuery) (model.H2H, error) {
	if q.Team1 == "" || q.Team2 == "" {
		return model.H2H{}, adapter.InvalidQuery("both team names are required")
	}

	team1, err := a.FindTeam(ctx, adapter.TeamQuery{Name: q.Team1})
	if err != nil {
		return model.H2H{}, adapter.AsError(err)
	}
	team2, err := a.FindTeam(ctx, adapter.TeamQuery{Name: q.Team2})
	if err != nil {
		return model.H2H{}, adapter.AsError(err)
	}

	key := cache.Key("basketball", "h2h", pairKey(team1.ID, team2.ID))
	var cached model.H2H
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.Fixtures(ctx, statsapi.FixturesQuery{H2H: team1.ID + "-" + team2.ID})
	if err != nil {
		return model.H2H{}, adapter.APIError(err)
	}

	h2h := adapter.BuildH2H(team1, team2, statsapi.ParseFixtures(model.SportBasketball, entries))
	adapter.CachePut(ctx, a.cache, key, h2h, adapter.TTLH2H)
	return h2h, nil
}

// pairKey orders the two ids so the cache key is the same either way
// round.
func pairKey(id1, id2 string) string {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return id1 + "-" + id2
}

// GetInjuries implements adapter.SportAdapter, backed by the unofficial
// aggregator.
func (a *Adapter) GetInjuries(ctx context.Context, team string) ([]model.Injury, error) {
	if team == "" {
		return nil, adapter.InvalidQuery("team name is required")
	}

	key := cache.Key("basketball", "injuries", team)
	var cached []model.Injury
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	reports, err := a.injuries.TeamInjuries(ctx, "basketball", team)
	if err != nil {
		return nil, adapter.APIError(err)
	}

	injuries := injurywire.ParseReports(reports)
	adapter.CachePut(ctx, a.cache, key, injuries, adapter.TTLInjuries)
	return injuries, nil
}
