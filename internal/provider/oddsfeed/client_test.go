package oddsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

const eventsPayload = `[
	{
		"id": "evt-1",
		"sport_key": "basketball_nba",
		"commence_time": "2025-11-02T23:00:00Z",
		"home_team": "Dallas Mavericks",
		"away_team": "Boston Celtics",
		"bookmakers": [
			{
				"key": "pinnacle",
				"title": "Pinnacle",
				"last_update": "2025-11-02T22:00:00Z",
				"markets": [
					{"key": "h2h", "outcomes": [
						{"name": "Dallas Mavericks", "price": 1.80},
						{"name": "Boston Celtics", "price": 2.10}
					]},
					{"key": "totals", "outcomes": [
						{"name": "Over", "price": 1.91, "point": 224.5},
						{"name": "Under", "price": 1.91, "point": 224.5}
					]}
				]
			}
		]
	},
	{
		"id": "evt-2",
		"sport_key": "basketball_nba",
		"commence_time": "2025-11-03T00:00:00Z",
		"home_team": "Denver Nuggets",
		"away_team": "Utah Jazz",
		"bookmakers": []
	}
]`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", WithBaseURL(server.URL))
}

func TestOddsFiltersToPairing(t *testing.T) {
	var gotMarkets, gotFormat string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMarkets = r.URL.Query().Get("markets")
		gotFormat = r.URL.Query().Get("oddsFormat")
		w.Write([]byte(eventsPayload))
	})

	events, err := client.Odds(context.Background(), OddsQuery{
		Sport:    "basketball_nba",
		HomeTeam: "Mavericks",
		AwayTeam: "Celtics",
	})
	if err != nil {
		t.Fatalf("Odds: %v", err)
	}
	if gotMarkets != "h2h,spreads,totals" {
		t.Errorf("markets param = %q", gotMarkets)
	}
	if gotFormat != "decimal" {
		t.Errorf("oddsFormat param = %q", gotFormat)
	}
	if len(events) != 1 || events[0].ID != "evt-1" {
		t.Fatalf("expected only the Mavericks event, got %+v", events)
	}
}

func TestOddsNoFilterReturnsAll(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(eventsPayload))
	})

	events, err := client.Odds(context.Background(), OddsQuery{Sport: "basketball_nba"})
	if err != nil {
		t.Fatalf("Odds: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestOddsServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusUnauthorized)
	})

	_, err := client.Odds(context.Background(), OddsQuery{Sport: "basketball_nba"})
	if err == nil {
		t.Fatal("expected error on HTTP 401")
	}
}

func TestParseEventAssignsSidesByName(t *testing.T) {
	price := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}
	point := 224.5

	event := EventOdds{
		ID:       "evt-1",
		HomeTeam: "Dallas Mavericks",
		AwayTeam: "Boston Celtics",
		Bookmakers: []Bookmaker{
			{
				Key: "pinnacle",
				Markets: []Market{
					{Key: "h2h", Outcomes: []OutcomeQuote{
						// Away listed first: assignment must go by name.
						{Name: "Boston Celtics", Price: price("2.10")},
						{Name: "Dallas Mavericks", Price: price("1.80")},
					}},
					{Key: "totals", Outcomes: []OutcomeQuote{
						{Name: "Over", Price: price("1.91"), Point: &point},
						{Name: "Under", Price: price("1.91")},
					}},
				},
			},
			{
				Key: "emptybook",
				Markets: []Market{
					// Half a moneyline is unusable and the book drops out.
					{Key: "h2h", Outcomes: []OutcomeQuote{
						{Name: "Dallas Mavericks", Price: price("1.85")},
					}},
				},
			},
		},
	}

	books := ParseEvent(event)
	if len(books) != 1 {
		t.Fatalf("expected 1 usable book, got %d", len(books))
	}

	b := books[0]
	if b.Bookmaker != "pinnacle" {
		t.Errorf("bookmaker = %s", b.Bookmaker)
	}
	if b.Moneyline == nil {
		t.Fatal("expected a moneyline")
	}
	if !b.Moneyline.Home.Equal(price("1.80")) || !b.Moneyline.Away.Equal(price("2.10")) {
		t.Errorf("moneyline = %s/%s, want 1.80/2.10", b.Moneyline.Home, b.Moneyline.Away)
	}
	if b.Moneyline.Draw != nil {
		t.Error("two-way market should have no draw")
	}
	if b.Total == nil || b.Total.Line != 224.5 {
		t.Errorf("total = %+v", b.Total)
	}
}

func TestParseEventThreeWay(t *testing.T) {
	price := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}

	event := EventOdds{
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Bookmakers: []Bookmaker{
			{
				Key: "bet365",
				Markets: []Market{
					{Key: "h2h", Outcomes: []OutcomeQuote{
						{Name: "Arsenal", Price: price("2.00")},
						{Name: "Draw", Price: price("3.40")},
						{Name: "Chelsea", Price: price("3.80")},
					}},
				},
			},
		},
	}

	books := ParseEvent(event)
	if len(books) != 1 || books[0].Moneyline == nil {
		t.Fatalf("expected a moneyline book, got %+v", books)
	}
	if books[0].Moneyline.Draw == nil || !books[0].Moneyline.Draw.Equal(price("3.40")) {
		t.Errorf("draw price = %v, want 3.40", books[0].Moneyline.Draw)
	}
}
