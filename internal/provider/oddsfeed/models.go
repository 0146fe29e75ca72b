package oddsfeed

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProviderName tags quotes that came from this provider.
const ProviderName = "oddsfeed"

// EventOdds is the raw per-match payload: one event, many bookmakers.
type EventOdds struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one book's markets for the event.
type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

// Market is one market kind ("h2h", "spreads", "totals") with its
// outcomes.
type Market struct {
	Key      string         `json:"key"`
	Outcomes []OutcomeQuote `json:"outcomes"`
}

// OutcomeQuote is one priced side. Point is the handicap or total line and
// is absent for moneyline outcomes.
type OutcomeQuote struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Point *float64        `json:"point,omitempty"`
}
