package odds

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fortuna/vantage/internal/model"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Implied returns the raw implied probability 1/price for a decimal price.
// Valid prices are strictly greater than 1, so the result is in (0,1).
func Implied(price decimal.Decimal) (decimal.Decimal, error) {
	if price.LessThanOrEqual(one) {
		return decimal.Zero, fmt.Errorf("invalid decimal odds %s: must be > 1", price)
	}
	return one.Div(price), nil
}

// Moneyline converts a win-market quote into a vig-free probability
// distribution in percentages. Raw implied probabilities sum to slightly
// more than 1 (the bookmaker margin); renormalizing so they sum to exactly
// 1 removes it.
func Moneyline(q MoneylineQuote) (model.Probability, error) {
	rawHome, err := Implied(q.Home)
	if err != nil {
		return model.Probability{}, fmt.Errorf("home: %w", err)
	}
	rawAway, err := Implied(q.Away)
	if err != nil {
		return model.Probability{}, fmt.Errorf("away: %w", err)
	}

	total := rawHome.Add(rawAway)
	var rawDraw decimal.Decimal
	if q.Draw != nil {
		rawDraw, err = Implied(*q.Draw)
		if err != nil {
			return model.Probability{}, fmt.Errorf("draw: %w", err)
		}
		total = total.Add(rawDraw)
	}

	p := model.Probability{
		Home: rawHome.Div(total).Mul(hundred).InexactFloat64(),
		Away: rawAway.Div(total).Mul(hundred).InexactFloat64(),
	}
	if q.Draw != nil {
		d := rawDraw.Div(total).Mul(hundred).InexactFloat64()
		p.Draw = &d
	}
	return p, nil
}

// normalizeTwoWay strips the vig from a two-sided market.
func normalizeTwoWay(a, b decimal.Decimal) (float64, float64, error) {
	rawA, err := Implied(a)
	if err != nil {
		return 0, 0, err
	}
	rawB, err := Implied(b)
	if err != nil {
		return 0, 0, err
	}
	total := rawA.Add(rawB)
	return rawA.Div(total).Mul(hundred).InexactFloat64(),
		rawB.Div(total).Mul(hundred).InexactFloat64(), nil
}

// Spread converts a handicap quote into vig-free cover percentages.
func Spread(q SpreadQuote) (SpreadProbability, error) {
	home, away, err := normalizeTwoWay(q.Home, q.Away)
	if err != nil {
		return SpreadProbability{}, err
	}
	return SpreadProbability{Line: q.Line, HomeCover: home, AwayCover: away}, nil
}

// Total converts an over/under quote into vig-free percentages.
func Total(q TotalQuote) (TotalProbability, error) {
	over, under, err := normalizeTwoWay(q.Over, q.Under)
	if err != nil {
		return TotalProbability{}, err
	}
	return TotalProbability{Line: q.Line, Over: over, Under: under}, nil
}

// BookIntel is one bookmaker's normalized markets. Markets the book did
// not offer, or quoted invalidly, are nil.
type BookIntel struct {
	Bookmaker string             `json:"bookmaker"`
	Moneyline *model.Probability `json:"moneyline,omitempty"`
	Spread    *SpreadProbability `json:"spread,omitempty"`
	Total     *TotalProbability  `json:"total,omitempty"`
}

// NormalizeBook normalizes every market one book offers. A book with no
// normalizable market at all is an error; a book with some bad quotes
// keeps its good markets.
func NormalizeBook(b BookOdds) (BookIntel, error) {
	intel := BookIntel{Bookmaker: b.Bookmaker}

	if b.Moneyline != nil {
		if p, err := Moneyline(*b.Moneyline); err == nil {
			intel.Moneyline = &p
		}
	}
	if b.Spread != nil {
		if p, err := Spread(*b.Spread); err == nil {
			intel.Spread = &p
		}
	}
	if b.Total != nil {
		if p, err := Total(*b.Total); err == nil {
			intel.Total = &p
		}
	}

	if intel.Moneyline == nil && intel.Spread == nil && intel.Total == nil {
		return BookIntel{}, fmt.Errorf("bookmaker %s offered no normalizable market", b.Bookmaker)
	}
	return intel, nil
}

// NormalizeBooks normalizes every book independently, skipping books with
// nothing usable.
func NormalizeBooks(books []BookOdds) []BookIntel {
	intels := make([]BookIntel, 0, len(books))
	for _, b := range books {
		if intel, err := NormalizeBook(b); err == nil {
			intels = append(intels, intel)
		}
	}
	return intels
}

// AggregateMoneyline combines the moneyline distributions of several books
// into one by weighted median per outcome, then renormalizes so the result
// sums to 100 again. Weights come from the sharpness table; unknown books
// weigh 1. Returns ok=false when no book quoted a moneyline.
func AggregateMoneyline(books []BookIntel, sharpness map[string]float64) (model.Probability, bool) {
	var homes, draws, aways []weighted
	hasDraw := false
	for _, b := range books {
		if b.Moneyline == nil {
			continue
		}
		w := 1.0
		if s, ok := sharpness[b.Bookmaker]; ok && s > 0 {
			w = s
		}
		homes = append(homes, weighted{b.Moneyline.Home, w})
		aways = append(aways, weighted{b.Moneyline.Away, w})
		if b.Moneyline.Draw != nil {
			draws = append(draws, weighted{*b.Moneyline.Draw, w})
			hasDraw = true
		}
	}
	if len(homes) == 0 {
		return model.Probability{}, false
	}

	home := weightedMedian(homes)
	away := weightedMedian(aways)
	total := home + away
	var draw float64
	if hasDraw {
		draw = weightedMedian(draws)
		total += draw
	}

	p := model.Probability{Home: home / total * 100, Away: away / total * 100}
	if hasDraw {
		d := draw / total * 100
		p.Draw = &d
	}
	return p, true
}

type weighted struct {
	value  float64
	weight float64
}

// weightedMedian returns the value at half the cumulative weight.
func weightedMedian(values []weighted) float64 {
	if len(values) == 1 {
		return values[0].value
	}
	sorted := make([]weighted, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].value < sorted[j].value })

	var totalWeight float64
	for _, v := range sorted {
		totalWeight += v.weight
	}

	half := totalWeight / 2
	var acc float64
	for _, v := range sorted {
		acc += v.weight
		if acc >= half {
			return v.value
		}
	}
	return sorted[len(sorted)-1].value
}
