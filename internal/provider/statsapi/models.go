package statsapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The provider wraps every payload in the same envelope: a response array
// (or object) plus an errors field that is sometimes a map, sometimes an
// empty array. providerError tolerates both.

type envelopeErrors struct {
	raw json.RawMessage
}

func (e *envelopeErrors) UnmarshalJSON(data []byte) error {
	e.raw = append(e.raw[:0], data...)
	return nil
}

func (e *envelopeErrors) messages() []string {
	if len(e.raw) == 0 {
		return nil
	}
	var asMap map[string]string
	if err := json.Unmarshal(e.raw, &asMap); err == nil {
		var msgs []string
		for k, v := range asMap {
			msgs = append(msgs, k+": "+v)
		}
		return msgs
	}
	var asList []string
	if err := json.Unmarshal(e.raw, &asList); err == nil {
		return asList
	}
	return nil
}

type teamsEnvelope struct {
	Errors   envelopeErrors `json:"errors"`
	Response []TeamEntry    `json:"response"`
}

func (e *teamsEnvelope) providerError() error {
	if msgs := e.Errors.messages(); len(msgs) > 0 {
		return fmt.Errorf("provider error: %s", strings.Join(msgs, "; "))
	}
	return nil
}

type fixturesEnvelope struct {
	Errors   envelopeErrors `json:"errors"`
	Response []FixtureEntry `json:"response"`
}

func (e *fixturesEnvelope) providerError() error {
	if msgs := e.Errors.messages(); len(msgs) > 0 {
		return fmt.Errorf("provider error: %s", strings.Join(msgs, "; "))
	}
	return nil
}

type statsEnvelope struct {
	Errors   envelopeErrors `json:"errors"`
	Response StatsEntry     `json:"response"`
}

func (e *statsEnvelope) providerError() error {
	if msgs := e.Errors.messages(); len(msgs) > 0 {
		return fmt.Errorf("provider error: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// TeamEntry is one raw team record.
type TeamEntry struct {
	Team  TeamInfo  `json:"team"`
	Venue VenueInfo `json:"venue"`
}

// TeamInfo is the provider's team shape.
type TeamInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// VenueInfo is the provider's venue shape.
type VenueInfo struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// FixtureEntry is one raw fixture record.
type FixtureEntry struct {
	Fixture FixtureInfo  `json:"fixture"`
	League  LeagueInfo   `json:"league"`
	Teams   FixtureTeams `json:"teams"`
	Goals   FixtureGoals `json:"goals"`
}

// FixtureInfo carries the fixture identity and state.
type FixtureInfo struct {
	ID     int           `json:"id"`
	Date   string        `json:"date"` // RFC3339
	Status FixtureStatus `json:"status"`
}

// FixtureStatus is the provider's status object. Short is a provider code
// like "NS", "1H", "FT", "PST".
type FixtureStatus struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// LeagueInfo scopes a fixture to a competition and season.
type LeagueInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
}

// FixtureTeams holds both sides of a fixture.
type FixtureTeams struct {
	Home FixtureTeam `json:"home"`
	Away FixtureTeam `json:"away"`
}

// FixtureTeam is one side of a fixture.
type FixtureTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FixtureGoals is the score. Pointers because the provider sends null for
// unplayed fixtures.
type FixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// StatsEntry is the raw per-season team statistics record.
type StatsEntry struct {
	Team          TeamInfo    `json:"team"`
	League        LeagueInfo  `json:"league"`
	Form          string      `json:"form"`
	Fixtures      StatsRecord `json:"fixtures"`
	Goals         StatsGoals  `json:"goals"`
	CleanSheet    StatsTotal  `json:"clean_sheet"`
	FailedToScore StatsTotal  `json:"failed_to_score"`
}

// StatsRecord counts played/won/drawn/lost.
type StatsRecord struct {
	Played StatsTotal `json:"played"`
	Wins   StatsTotal `json:"wins"`
	Draws  StatsTotal `json:"draws"`
	Loses  StatsTotal `json:"loses"`
}

// StatsTotal is the provider's {home, away, total} split; only the total is
// used downstream.
type StatsTotal struct {
	Total int `json:"total"`
}

// StatsGoals splits scoring for and against.
type StatsGoals struct {
	For     StatsGoalSide `json:"for"`
	Against StatsGoalSide `json:"against"`
}

// StatsGoalSide carries totals and the provider's stringly-typed averages.
type StatsGoalSide struct {
	Total   StatsTotal   `json:"total"`
	Average StatsAverage `json:"average"`
}

// StatsAverage is a decimal string like "1.8".
type StatsAverage struct {
	Total string `json:"total"`
}
