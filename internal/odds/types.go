// Package odds converts heterogeneous bookmaker quotes into a canonical
// implied-probability representation. Each bookmaker is normalized
// independently; combining books is the caller's policy.
package odds

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneylineQuote is a win market. Draw is present only for sports that can
// draw; nil otherwise, never a zero price.
type MoneylineQuote struct {
	Home decimal.Decimal  `json:"home"`
	Away decimal.Decimal  `json:"away"`
	Draw *decimal.Decimal `json:"draw,omitempty"`
}

// SpreadQuote is a handicap market. Line is the home handicap.
type SpreadQuote struct {
	Line float64         `json:"line"`
	Home decimal.Decimal `json:"home"`
	Away decimal.Decimal `json:"away"`
}

// TotalQuote is an over/under market on combined score.
type TotalQuote struct {
	Line  float64         `json:"line"`
	Over  decimal.Decimal `json:"over"`
	Under decimal.Decimal `json:"under"`
}

// BookOdds is one bookmaker's quotes for one match. Markets the book does
// not offer are nil.
type BookOdds struct {
	Bookmaker  string          `json:"bookmaker"`
	Title      string          `json:"title,omitempty"`
	Moneyline  *MoneylineQuote `json:"moneyline,omitempty"`
	Spread     *SpreadQuote    `json:"spread,omitempty"`
	Total      *TotalQuote     `json:"total,omitempty"`
	LastUpdate time.Time       `json:"last_update"`
	Provider   string          `json:"provider,omitempty"`
}

// SpreadProbability is the vig-free cover distribution for a spread, in
// percentages.
type SpreadProbability struct {
	Line      float64 `json:"line"`
	HomeCover float64 `json:"home_cover"`
	AwayCover float64 `json:"away_cover"`
}

// TotalProbability is the vig-free over/under distribution, in
// percentages.
type TotalProbability struct {
	Line  float64 `json:"line"`
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}
