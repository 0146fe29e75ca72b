package oddsfeed

import (
	"strings"

	"github.com/fortuna/vantage/internal/odds"
)

// ParseEvent maps one raw event into canonical per-bookmaker quotes.
// Outcome names in the payload are the provider's own team spellings, so
// sides are assigned by matching against the event header rather than
// position.
func ParseEvent(event EventOdds) []odds.BookOdds {
	books := make([]odds.BookOdds, 0, len(event.Bookmakers))
	for _, bm := range event.Bookmakers {
		book := odds.BookOdds{
			Bookmaker:  bm.Key,
			Title:      bm.Title,
			LastUpdate: bm.LastUpdate,
			Provider:   ProviderName,
		}

		for _, market := range bm.Markets {
			switch market.Key {
			case "h2h":
				book.Moneyline = parseMoneyline(event, market)
			case "spreads":
				book.Spread = parseSpread(event, market)
			case "totals":
				book.Total = parseTotal(market)
			}
		}

		if book.Moneyline != nil || book.Spread != nil || book.Total != nil {
			books = append(books, book)
		}
	}
	return books
}

func parseMoneyline(event EventOdds, market Market) *odds.MoneylineQuote {
	var q odds.MoneylineQuote
	var haveHome, haveAway bool
	for _, outcome := range market.Outcomes {
		switch {
		case strings.EqualFold(outcome.Name, "Draw"):
			price := outcome.Price
			q.Draw = &price
		case strings.EqualFold(outcome.Name, event.HomeTeam):
			q.Home = outcome.Price
			haveHome = true
		case strings.EqualFold(outcome.Name, event.AwayTeam):
			q.Away = outcome.Price
			haveAway = true
		}
	}
	if !haveHome || !haveAway {
		return nil
	}
	return &q
}

func parseSpread(event EventOdds, market Market) *odds.SpreadQuote {
	var q odds.SpreadQuote
	var haveHome, haveAway bool
	for _, outcome := range market.Outcomes {
		switch {
		case strings.EqualFold(outcome.Name, event.HomeTeam):
			q.Home = outcome.Price
			if outcome.Point != nil {
				q.Line = *outcome.Point
			}
			haveHome = true
		case strings.EqualFold(outcome.Name, event.AwayTeam):
			q.Away = outcome.Price
			haveAway = true
		}
	}
	if !haveHome || !haveAway {
		return nil
	}
	return &q
}

func parseTotal(market Market) *odds.TotalQuote {
	var q odds.TotalQuote
	var haveOver, haveUnder bool
	for _, outcome := range market.Outcomes {
		switch {
		case strings.EqualFold(outcome.Name, "Over"):
			q.Over = outcome.Price
			if outcome.Point != nil {
				q.Line = *outcome.Point
			}
			haveOver = true
		case strings.EqualFold(outcome.Name, "Under"):
			q.Under = outcome.Price
			haveUnder = true
		}
	}
	if !haveOver || !haveUnder {
		return nil
	}
	return &q
}
