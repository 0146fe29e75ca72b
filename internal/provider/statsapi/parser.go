package statsapi

import (
	"strconv"
	"time"

	"github.com/fortuna/vantage/internal/model"
)

// ProviderName tags normalized records that came from this provider.
const ProviderName = "statsapi"

// parseStatus maps the provider status codes onto the canonical enum.
func parseStatus(short string) model.MatchStatus {
	switch short {
	case "NS", "TBD":
		return model.StatusScheduled
	case "1H", "HT", "2H", "ET", "P", "LIVE", "Q1", "Q2", "Q3", "Q4", "OT", "BT":
		return model.StatusLive
	case "FT", "AET", "PEN", "AOT":
		return model.StatusFinished
	case "CANC", "ABD":
		return model.StatusCancelled
	case "PST", "SUSP", "INT":
		return model.StatusPostponed
	default:
		return model.StatusUnknown
	}
}

// ParseTeam maps a raw team entry into the canonical model.
func ParseTeam(sport model.Sport, league string, entry TeamEntry) model.Team {
	return model.Team{
		ID:         strconv.Itoa(entry.Team.ID),
		ExternalID: strconv.Itoa(entry.Team.ID),
		Name:       entry.Team.Name,
		ShortName:  entry.Team.Code,
		Sport:      sport,
		League:     league,
		Venue:      entry.Venue.Name,
	}
}

// ParseFixture maps a raw fixture into a canonical match. A fixture the
// provider reports finished without a score is demoted to unknown rather
// than fabricating one.
func ParseFixture(sport model.Sport, entry FixtureEntry) model.Match {
	status := parseStatus(entry.Fixture.Status.Short)

	var score *model.Score
	if entry.Goals.Home != nil && entry.Goals.Away != nil {
		score = &model.Score{Home: *entry.Goals.Home, Away: *entry.Goals.Away}
	}
	if status == model.StatusFinished && score == nil {
		status = model.StatusUnknown
	}

	date, err := time.Parse(time.RFC3339, entry.Fixture.Date)
	if err != nil {
		date = time.Time{}
	}

	return model.Match{
		ID:        strconv.Itoa(entry.Fixture.ID),
		Sport:     sport,
		League:    entry.League.Name,
		Season:    strconv.Itoa(entry.League.Season),
		HomeTeam:  model.Team{ID: strconv.Itoa(entry.Teams.Home.ID), Name: entry.Teams.Home.Name, Sport: sport, League: entry.League.Name},
		AwayTeam:  model.Team{ID: strconv.Itoa(entry.Teams.Away.ID), Name: entry.Teams.Away.Name, Sport: sport, League: entry.League.Name},
		Status:    status,
		Date:      date,
		Score:     score,
		Provider:  ProviderName,
		FetchedAt: time.Now().UTC(),
	}
}

// ParseFixtures maps a raw fixture list.
func ParseFixtures(sport model.Sport, entries []FixtureEntry) []model.Match {
	matches := make([]model.Match, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, ParseFixture(sport, e))
	}
	return matches
}

// ParseStats maps the raw statistics record. Sport-specific extended keys
// are filled by the owning adapter, not here.
func ParseStats(sport model.Sport, season string, entry *StatsEntry) model.TeamStats {
	avgFor, _ := strconv.ParseFloat(entry.Goals.For.Average.Total, 64)
	avgAgainst, _ := strconv.ParseFloat(entry.Goals.Against.Average.Total, 64)

	return model.TeamStats{
		TeamID:        strconv.Itoa(entry.Team.ID),
		TeamName:      entry.Team.Name,
		Sport:         sport,
		Season:        season,
		Played:        entry.Fixtures.Played.Total,
		Wins:          entry.Fixtures.Wins.Total,
		Losses:        entry.Fixtures.Loses.Total,
		Draws:         entry.Fixtures.Draws.Total,
		ScoredFor:     float64(entry.Goals.For.Total.Total),
		ScoredAgainst: float64(entry.Goals.Against.Total.Total),
		AvgFor:        avgFor,
		AvgAgainst:    avgAgainst,
		Form:          entry.Form,
		Provider:      ProviderName,
		FetchedAt:     time.Now().UTC(),
	}
}
