// Package soccer adapts the statistics provider to the uniform sport
// contract for the major European soccer leagues. Unlike basketball there
// is no single league, so team search fans out across the configured
// leagues with a bounded number of in-flight provider calls.
package soccer

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/cache"
	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/provider/injurywire"
	"github.com/fortuna/vantage/internal/provider/statsapi"
	"github.com/fortuna/vantage/internal/resolve"
)

// leagues maps display names to the provider's league identifiers.
var leagues = map[string]string{
	"Premier League": "39",
	"La Liga":        "140",
	"Serie A":        "135",
	"Bundesliga":     "78",
	"Ligue 1":        "61",
}

const (
	// maxConcurrentSearches bounds fan-out across leagues. The provider
	// enforces a daily quota, so unbounded fan-out is a correctness
	// problem, not just a performance one.
	maxConcurrentSearches = 3

	defaultRecentLimit = 10
)

// Adapter serves soccer data.
type Adapter struct {
	stats    *statsapi.Client
	injuries *injurywire.Client
	cache    cache.Store
}

// New creates the soccer adapter.
func New(stats *statsapi.Client, injuries *injurywire.Client, store cache.Store) *Adapter {
	return &Adapter{stats: stats, injuries: injuries, cache: store}
}

// Sport implements adapter.SportAdapter.
func (a *Adapter) Sport() model.Sport {
	return model.SportSoccer
}

// IsAvailable reports whether the statistics credential is configured.
func (a *Adapter) IsAvailable() bool {
	return a.stats.Configured()
}

// currentSeason returns the provider's season label. European seasons
// roll over in August and are labelled by their starting year.
func currentSeason() string {
	now := time.Now()
	year := now.Year()
	if now.Month() < time.August {
		year--
	}
	return strconv.Itoa(year)
}

type leagueHit struct {
	league string
	entry  statsapi.TeamEntry
}

// searchAllLeagues fans the team search out across every configured
// league, at most maxConcurrentSearches at a time, and joins all results.
// Individual league failures are tolerated; only total failure surfaces.
func (a *Adapter) searchAllLeagues(ctx context.Context, name string) ([]leagueHit, error) {
	var (
		mu      sync.Mutex
		hits    []leagueHit
		lastErr error
		wg      sync.WaitGroup
		sem     = make(chan struct{}, maxConcurrentSearches)
	)

	for leagueName, leagueID := range leagues {
		wg.Add(1)
		go func(leagueName, leagueID string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				lastErr = ctx.Err()
				mu.Unlock()
				return
			}

			entries, err := a.stats.SearchTeams(ctx, leagueID, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lastErr = err
				return
			}
			for _, e := range entries {
				hits = append(hits, leagueHit{league: leagueName, entry: e})
			}
		}(leagueName, leagueID)
	}
	wg.Wait()

	if len(hits) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return hits, nil
}

// FindTeam implements adapter.SportAdapter. A league hint narrows the
// candidate pool before resolution but never hard-fails it.
func (a *Adapter) FindTeam(ctx context.Context, q adapter.TeamQuery) (model.Team, error) {
	if q.Name == "" {
		return model.Team{}, adapter.InvalidQuery("team name is required")
	}

	key := cache.Key("soccer", "team", q.Name, q.League)
	var cached model.Team
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	hits, err := a.searchAllLeagues(ctx, q.Name)
	if err != nil {
		return model.Team{}, adapter.APIError(err)
	}

	candidates := make([]resolve.Candidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, resolve.Candidate{
			ID:      strconv.Itoa(h.entry.Team.ID),
			Name:    h.entry.Team.Name,
			Aliases: []string{h.entry.Team.Code},
			League:  h.league,
		})
	}

	match, ok := resolve.Resolve(q.Name, resolve.FilterLeague(q.League, candidates))
	if !ok {
		return model.Team{}, adapter.NotFound("no team matching %q", q.Name)
	}

	for _, h := range hits {
		if strconv.Itoa(h.entry.Team.ID) == match.ID {
			team := statsapi.ParseTeam(model.SportSoccer, h.league, h.entry)
			adapter.CachePut(ctx, a.cache, key, team, adapter.TTLTeam)
			return team, nil
		}
	}
	return model.Team{}, adapter.NotFound("no team matching %q", q.Name)
}

// GetMatches implements adapter.SportAdapter.
func (a *Adapter) GetMatches(ctx context.Context, q adapter.MatchQuery) ([]model.Match, error) {
	season := q.Season
	if season == "" {
		season = currentSeason()
	}

	fq := statsapi.FixturesQuery{Season: season}
	switch {
	case q.Date != "":
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			return nil, adapter.InvalidQuery("invalid date %q (use YYYY-MM-DD)", q.Date)
		}
		fq.Date = q.Date
		fq.Season = "" // date alone scopes the request
	case q.Team != "":
		team, err := a.FindTeam(ctx, adapter.TeamQuery{Name: q.Team})
		if err != nil {
			return nil, adapter.AsError(err)
		}
		fq.TeamID = team.ID
	default:
		// Neither date nor team: current season of the flagship league.
		fq.League = leagues["Premier League"]
	}

	key := cache.Key("soccer", "matches", fq.Date, fq.TeamID, fq.League, fq.Season)
	var cached []model.Match
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.Fixtures(ctx, fq)
	if err != nil {
		return nil, adapter.APIError(err)
	}

	matches := statsapi.ParseFixtures(model.SportSoccer, entries)
	adapter.CachePut(ctx, a.cache, key, matches, adapter.TTLMatches)
	return matches, nil
}

// GetTeamStats implements adapter.SportAdapter. The soccer extended bag
// carries clean sheets and failed-to-score counts.
func (a *Adapter) GetTeamStats(ctx context.Context, q adapter.StatsQuery) (model.TeamStats, error) {
	if q.TeamID == "" {
		return model.TeamStats{}, adapter.InvalidQuery("team id is required")
	}
	season := q.Season
	if season == "" {
		season = currentSeason()
	}

	key := cache.Key("soccer", "stats", q.TeamID, season)
	var cached model.TeamStats
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	// The stats endpoint is league-scoped; find the team's league from
	// its fixtures when we don't already know it.
	league, err := a.leagueForTeam(ctx, q.TeamID)
	if err != nil {
		return model.TeamStats{}, adapter.AsError(err)
	}

	entry, err := a.stats.TeamStatistics(ctx, league, season, q.TeamID)
	if err != nil {
		return model.TeamStats{}, adapter.APIError(err)
	}

	stats := statsapi.ParseStats(model.SportSoccer, season, entry)
	stats.Extended = map[string]string{
		"clean_sheets":    strconv.Itoa(entry.CleanSheet.Total),
		"failed_to_score": strconv.Itoa(entry.FailedToScore.Total),
	}
	adapter.CachePut(ctx, a.cache, key, stats, adapter.TTLStats)
	return stats, nil
}

// leagueForTeam finds the provider league id a team currently plays in by
// looking at its most recent fixture.
func (a *Adapter) leagueForTeam(ctx context.Context, teamID string) (string, error) {
	key := cache.Key("soccer", "league-of", teamID)
	var cached string
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.Fixtures(ctx, statsapi.FixturesQuery{TeamID: teamID, Last: 1})
	if err != nil {
		return "", adapter.APIError(err)
	}
	if len(entries) == 0 {
		return "", adapter.NotFound("no fixtures for team %s", teamID)
	}

	league := strconv.Itoa(entries[0].League.ID)
	adapter.CachePut(ctx, a.cache, key, league, adapter.TTLTeam)
	return league, nil
}

// GetRecentGames implements adapter.SportAdapter.
func (a *Adapter) GetRecentGames(ctx context.Context, teamID string, limit int) (model.RecentGames, error) {
	if teamID == "" {
		return model.RecentGames{}, adapter.InvalidQuery("team id is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	key := cache.Key("soccer", "recent", teamID, strconv.Itoa(limit))
	var cached model.RecentGames
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.Fixtures(ctx, statsapi.FixturesQuery{TeamID: teamID, Last: limit})
	if err != nil {
		return model.RecentGames{}, adapter.APIError(err)
	}

	games := statsapi.ParseFixtures(model.SportSoccer, entries)
	recent := model.RecentGames{
		TeamID:  teamID,
		Games:   games,
		Summary: adapter.SummarizeRecent(teamID, games),
	}
	adapter.CachePut(ctx, a.cache, key, recent, adapter.TTLMatches)
	return recent, nil
}

// GetH2H implements adapter.SportAdapter.
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

	key := cache.Key("soccer", "h2h", pairKey(team1.ID, team2.ID))
	var cached model.H2H
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	entries, err := a.stats.Fixtures(ctx, statsapi.FixturesQuery{H2H: team1.ID + "-" + team2.ID})
	if err != nil {
		return model.H2H{}, adapter.APIError(err)
	}

	h2h := adapter.BuildH2H(team1, team2, statsapi.ParseFixtures(model.SportSoccer, entries))
	adapter.CachePut(ctx, a.cache, key, h2h, adapter.TTLH2H)
	return h2h, nil
}

func pairKey(id1, id2 string) string {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return id1 + "-" + id2
}

// GetInjuries implements adapter.SportAdapter.
func (a *Adapter) GetInjuries(ctx context.Context, team string) ([]model.Injury, error) {
	if team == "" {
		return nil, adapter.InvalidQuery("team name is required")
	}

	key := cache.Key("soccer", "injuries", team)
	var cached []model.Injury
	if adapter.CacheGet(ctx, a.cache, key, &cached) {
		return cached, nil
	}

	reports, err := a.injuries.TeamInjuries(ctx, "soccer", team)
	if err != nil {
		return nil, adapter.APIError(err)
	}

	injuries := injurywire.ParseReports(reports)
	adapter.CachePut(ctx, a.cache, key, injuries, adapter.TTLInjuries)
	return injuries, nil
}
