package fightapi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fortuna/vantage/internal/model"
)

// ProviderName tags normalized records that came from this provider.
const ProviderName = "fightapi"

// ParseFighter maps a raw fighter onto the canonical team shape. The
// nickname doubles as the short name, which is also what makes nickname
// resolution work downstream.
func ParseFighter(f Fighter) model.Team {
	return model.Team{
		ID:         f.ID,
		ExternalID: f.ID,
		Name:       f.Name,
		ShortName:  f.Nickname,
		Sport:      model.SportMMA,
		League:     f.League,
	}
}

// ParseFight maps a bout onto the canonical match shape, from the
// perspective of the fight's FighterID (home side). Bouts have no score;
// a decided result is canonicalized as 1-0 so downstream win/loss
// summaries work unchanged.
func ParseFight(f Fight) model.Match {
	var status model.MatchStatus
	var score *model.Score
	switch f.Result {
	case "win":
		status = model.StatusFinished
		score = &model.Score{Home: 1, Away: 0}
	case "loss":
		status = model.StatusFinished
		score = &model.Score{Home: 0, Away: 1}
	case "draw":
		status = model.StatusFinished
		score = &model.Score{Home: 0, Away: 0}
	case "nc":
		status = model.StatusCancelled
	default:
		switch f.Status {
		case "upcoming", "scheduled":
			status = model.StatusScheduled
		case "live":
			status = model.StatusLive
		case "cancelled":
			status = model.StatusCancelled
		default:
			status = model.StatusUnknown
		}
	}

	date, err := time.Parse("2006-01-02", f.Date)
	if err != nil {
		date = time.Time{}
	}

	return model.Match{
		ID:        f.ID,
		Sport:     model.SportMMA,
		League:    f.Event,
		HomeTeam:  model.Team{ID: f.FighterID, Name: f.Fighter, Sport: model.SportMMA},
		AwayTeam:  model.Team{ID: f.OpponentID, Name: f.Opponent, Sport: model.SportMMA},
		Status:    status,
		Date:      date,
		Score:     score,
		Provider:  ProviderName,
		FetchedAt: time.Now().UTC(),
	}
}

// ParseFights maps a bout list.
func ParseFights(fights []Fight) []model.Match {
	matches := make([]model.Match, 0, len(fights))
	for _, f := range fights {
		matches = append(matches, ParseFight(f))
	}
	return matches
}

// ParseRecord maps a career record onto the canonical stats shape. The
// extended bag carries the combat-specific derived metrics.
func ParseRecord(fighter Fighter, r *Record) model.TeamStats {
	total := r.Wins + r.Losses + r.Draws

	finishRate := 0.0
	if r.Wins > 0 {
		finishRate = float64(r.KOWins+r.SubWins) / float64(r.Wins)
	}

	return model.TeamStats{
		TeamID:   fighter.ID,
		TeamName: fighter.Name,
		Sport:    model.SportMMA,
		Played:   total,
		Wins:     r.Wins,
		Losses:   r.Losses,
		Draws:    r.Draws,
		Extended: map[string]string{
			"finish_rate": fmt.Sprintf("%.2f", finishRate),
			"ko_wins":     strconv.Itoa(r.KOWins),
			"sub_wins":    strconv.Itoa(r.SubWins),
		},
		Provider:  ProviderName,
		FetchedAt: time.Now().UTC(),
	}
}
