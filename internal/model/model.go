// Package model holds the canonical data shapes shared across every
// provider adapter. Provider-specific payloads never leave their own
// package; everything the rest of the service sees is one of these types.
package model

import "time"

// Sport identifies a supported sport.
type Sport string

const (
	SportBasketball Sport = "basketball"
	SportSoccer     Sport = "soccer"
	SportMMA        Sport = "mma"
)

// MatchStatus represents the lifecycle state of a match.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusFinished  MatchStatus = "finished"
	StatusCancelled MatchStatus = "cancelled"
	StatusPostponed MatchStatus = "postponed"
	StatusUnknown   MatchStatus = "unknown"
)

// Team is a provider-scoped team or fighter. The same real-world team has a
// different ID per provider until the resolver matches it for a given call.
type Team struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name"`
	ShortName  string `json:"short_name,omitempty"`
	Sport      Sport  `json:"sport"`
	League     string `json:"league,omitempty"`
	Venue      string `json:"venue,omitempty"`
}

// Score holds the final or current score of a match.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Match is a normalized fixture from any provider.
//
// Invariant: Status == StatusFinished implies Score != nil. A nil Score is
// only valid for scheduled, live, cancelled, postponed or unknown matches;
// a fixture reported finished without a score is demoted to unknown.
type Match struct {
	ID        string      `json:"id"`
	Sport     Sport       `json:"sport"`
	League    string      `json:"league,omitempty"`
	Season    string      `json:"season,omitempty"`
	HomeTeam  Team        `json:"home_team"`
	AwayTeam  Team        `json:"away_team"`
	Status    MatchStatus `json:"status"`
	Date      time.Time   `json:"date"`
	Score     *Score      `json:"score,omitempty"`
	Provider  string      `json:"provider"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// TeamStats is a per-team, per-season aggregate record. Extended carries
// sport-specific derived metrics that do not generalize across sports.
//
// Recognized Extended keys by sport:
//   - soccer: clean_sheets, failed_to_score
//   - basketball: avg_total_points
//   - mma: finish_rate, ko_wins, sub_wins
type TeamStats struct {
	TeamID        string            `json:"team_id"`
	TeamName      string            `json:"team_name"`
	Sport         Sport             `json:"sport"`
	Season        string            `json:"season,omitempty"`
	Played        int               `json:"played"`
	Wins          int               `json:"wins"`
	Losses        int               `json:"losses"`
	Draws         int               `json:"draws"`
	ScoredFor     float64           `json:"scored_for"`
	ScoredAgainst float64           `json:"scored_against"`
	AvgFor        float64           `json:"avg_for"`
	AvgAgainst    float64           `json:"avg_against"`
	Form          string            `json:"form,omitempty"`
	Extended      map[string]string `json:"extended,omitempty"`
	Provider      string            `json:"provider"`
	FetchedAt     time.Time         `json:"fetched_at"`
}

// RecentSummary is recomputed from the returned games, never trusted from
// the provider.
type RecentSummary struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// RecentGames is a team's latest games plus a derived summary.
type RecentGames struct {
	TeamID  string        `json:"team_id"`
	Games   []Match       `json:"games"`
	Summary RecentSummary `json:"summary"`
}

// H2H is a pairwise meeting summary keyed by an unordered pair of resolved
// team identifiers.
type H2H struct {
	Team1         Team    `json:"team1"`
	Team2         Team    `json:"team2"`
	TotalMeetings int     `json:"total_meetings"`
	Team1Wins     int     `json:"team1_wins"`
	Team2Wins     int     `json:"team2_wins"`
	Draws         int     `json:"draws"`
	Matches       []Match `json:"matches"`
}

// InjuryStatus is the reported availability of a player.
type InjuryStatus string

const (
	InjuryOut          InjuryStatus = "out"
	InjuryDoubtful     InjuryStatus = "doubtful"
	InjuryQuestionable InjuryStatus = "questionable"
	InjuryProbable     InjuryStatus = "probable"
	InjuryDayToDay     InjuryStatus = "day-to-day"
)

// Injury is a normalized injury report entry.
type Injury struct {
	PlayerName     string       `json:"player_name"`
	TeamName       string       `json:"team_name"`
	Status         InjuryStatus `json:"status"`
	Type           string       `json:"type,omitempty"`
	Description    string       `json:"description,omitempty"`
	ExpectedReturn *time.Time   `json:"expected_return,omitempty"`
	Provider       string       `json:"provider"`
	FetchedAt      time.Time    `json:"fetched_at"`
}

// Probability is an outcome distribution over a match. Draw is an explicit
// optional: nil for sports with no draw outcome, never a zero sentinel.
// Values are percentages in [0,100].
type Probability struct {
	Home float64  `json:"home"`
	Away float64  `json:"away"`
	Draw *float64 `json:"draw,omitempty"`
}

// Sum returns the total probability mass including the draw when present.
func (p Probability) Sum() float64 {
	s := p.Home + p.Away
	if p.Draw != nil {
		s += *p.Draw
	}
	return s
}

// Outcome names a side of a market.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
	OutcomeNone Outcome = "none"
)

// Strength grades a value edge.
type Strength string

const (
	StrengthNone   Strength = "none"
	StrengthLow    Strength = "low"
	StrengthMedium Strength = "medium"
	StrengthHigh   Strength = "high"
)

// Rank orders strengths for monotonicity checks. Higher is stronger.
func (s Strength) Rank() int {
	switch s {
	case StrengthLow:
		return 1
	case StrengthMedium:
		return 2
	case StrengthHigh:
		return 3
	default:
		return 0
	}
}

// ValueEdge is the graded divergence between model and market.
type ValueEdge struct {
	Outcome     Outcome  `json:"outcome"`
	EdgePercent float64  `json:"edge_percent"`
	Strength    Strength `json:"strength"`
}
