// Package adapter defines the capability contract every sport adapter
// implements, and the error taxonomy the rest of the service sees. An
// adapter wraps one or more provider clients behind this contract and
// never lets a raw provider failure escape it.
package adapter

import (
	"context"

	"github.com/fortuna/vantage/internal/model"
)

// TeamQuery looks up a team by free-text name. League is an optional
// disambiguation hint.
type TeamQuery struct {
	Name   string
	League string
}

// MatchQuery narrows a fixture request. At least one of Date or Team
// should be usable; when neither is, adapters default to the current
// season's schedule.
type MatchQuery struct {
	Date   string // YYYY-MM-DD
	Team   string // free-text team name
	Season string
}

// StatsQuery requests a team's per-season aggregate record.
type StatsQuery struct {
	TeamID string
	Season string
}

// H2HQuery requests the pairwise history of two teams by name.
type H2HQuery struct {
	Team1 string
	Team2 string
}

// SportAdapter is the uniform data-access contract over one sport's
// provider clients. Implementations return *Error for every failure.
type SportAdapter interface {
	// Sport identifies which sport this adapter serves.
	Sport() model.Sport

	// FindTeam resolves a free-text name to one provider team.
	FindTeam(ctx context.Context, q TeamQuery) (model.Team, error)

	// GetMatches lists fixtures matching q.
	GetMatches(ctx context.Context, q MatchQuery) ([]model.Match, error)

	// GetTeamStats returns the per-season aggregate record.
	GetTeamStats(ctx context.Context, q StatsQuery) (model.TeamStats, error)

	// GetRecentGames returns a team's latest games with a summary
	// recomputed from the games themselves.
	GetRecentGames(ctx context.Context, teamID string, limit int) (model.RecentGames, error)

	// GetH2H returns the pairwise history. Both names are resolved
	// independently first; either failing means NOT_FOUND with no
	// pairwise provider call.
	GetH2H(ctx context.Context, q H2HQuery) (model.H2H, error)

	// GetInjuries returns the current injury report for a team. Sports
	// with no injury concept return an empty success result.
	GetInjuries(ctx context.Context, team string) ([]model.Injury, error)

	// IsAvailable is a pure configuration check, no network call.
	IsAvailable() bool
}

// SummarizeRecent recomputes a win/loss/draw summary from the finished
// games in the list, from teamID's perspective. Provider-sent summaries
// are not trusted.
func SummarizeRecent(teamID string, games []model.Match) model.RecentSummary {
	var s model.RecentSummary
	for _, g := range games {
		if g.Status != model.StatusFinished || g.Score == nil {
			continue
		}
		var forPts, againstPts int
		switch teamID {
		case g.HomeTeam.ID:
			forPts, againstPts = g.Score.Home, g.Score.Away
		case g.AwayTeam.ID:
			forPts, againstPts = g.Score.Away, g.Score.Home
		default:
			continue
		}
		switch {
		case forPts > againstPts:
			s.Wins++
		case forPts < againstPts:
			s.Losses++
		default:
			s.Draws++
		}
	}
	return s
}

// BuildH2H composes the pairwise summary from a finished-match list for
// two resolved teams.
func BuildH2H(team1, team2 model.Team, matches []model.Match) model.H2H {
	h2h := model.H2H{Team1: team1, Team2: team2, Matches: matches}
	for _, m := range matches {
		if m.Status != model.StatusFinished || m.Score == nil {
			continue
		}
		h2h.TotalMeetings++
		var winnerID string
		switch {
		case m.Score.Home > m.Score.Away:
			winnerID = m.HomeTeam.ID
		case m.Score.Away > m.Score.Home:
			winnerID = m.AwayTeam.ID
		}
		switch winnerID {
		case team1.ID:
			h2h.Team1Wins++
		case team2.ID:
			h2h.Team2Wins++
		default:
			h2h.Draws++
		}
	}
	return h2h
}
