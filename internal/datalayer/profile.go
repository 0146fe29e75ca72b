package datalayer

import (
	"context"
	"sync"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/model"
)

// TeamProfile is the composed picture of one team. Fields whose fetch
// failed are nil, with the failure noted per field; a profile is only an
// error when the team itself cannot be resolved.
type TeamProfile struct {
	Team     model.Team         `json:"team"`
	Stats    *model.TeamStats   `json:"stats,omitempty"`
	Recent   *model.RecentGames `json:"recent,omitempty"`
	Upcoming []model.Match      `json:"upcoming,omitempty"`
	Injuries []model.Injury     `json:"injuries,omitempty"`
	Notes    map[string]string  `json:"notes,omitempty"`
}

const profileRecentLimit = 5

// GetTeamProfile resolves the team once, then fetches stats, recent form,
// upcoming matches and injuries concurrently and joins the parts.
func (f *Facade) GetTeamProfile(ctx context.Context, sport model.Sport, q adapter.TeamQuery) (TeamProfile, error) {
	a, aerr := f.adapterFor(sport)
	if aerr != nil {
		return TeamProfile{}, aerr
	}

	team, err := a.FindTeam(ctx, q)
	if err != nil {
		return TeamProfile{}, opError(sport, "get_team_profile", err)
	}

	profile := TeamProfile{Team: team, Notes: make(map[string]string)}

	var mu sync.Mutex
	note := func(field string, err error) {
		mu.Lock()
		profile.Notes[field] = adapter.AsError(err).Error()
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		stats, err := a.GetTeamStats(ctx, adapter.StatsQuery{TeamID: team.ID})
		if err != nil {
			note("stats", err)
			return
		}
		mu.Lock()
		profile.Stats = &stats
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		recent, err := a.GetRecentGames(ctx, team.ID, profileRecentLimit)
		if err != nil {
			note("recent", err)
			return
		}
		mu.Lock()
		profile.Recent = &recent
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		matches, err := a.GetMatches(ctx, adapter.MatchQuery{Team: team.Name})
		if err != nil {
			note("upcoming", err)
			return
		}
		upcoming := make([]model.Match, 0, len(matches))
		for _, m := range matches {
			if m.Status == model.StatusScheduled || m.Status == model.StatusLive {
				upcoming = append(upcoming, m)
			}
		}
		mu.Lock()
		profile.Upcoming = upcoming
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		injuries, err := a.GetInjuries(ctx, team.Name)
		if err != nil {
			note("injuries", err)
			return
		}
		mu.Lock()
		profile.Injuries = injuries
		mu.Unlock()
	}()

	wg.Wait()

	if len(profile.Notes) == 0 {
		profile.Notes = nil
	}
	return profile, nil
}
