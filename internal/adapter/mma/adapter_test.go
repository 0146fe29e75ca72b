package mma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/cache"
	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/provider/fightapi"
)

const fightersPayload = `[
	{"id": "f-100", "name": "Jon Jones", "nickname": "Bones", "promotion": "UFC", "division": "Heavyweight"},
	{"id": "f-200", "name": "Deiveson Figueiredo", "nickname": "Deus da Guerra", "promotion": "UFC", "division": "Bantamweight"}
]`

func testAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := fightapi.NewClient("test-key", fightapi.WithBaseURL(server.URL))
	return New(client, cache.NewMemory())
}

func TestFindTeamByNickname(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fighters" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(fightersPayload))
	})

	team, err := a.FindTeam(context.Background(), adapter.TeamQuery{Name: "Bones"})
	if err != nil {
		t.Fatalf("FindTeam: %v", err)
	}
	if team.ID != "f-100" || team.Name != "Jon Jones" {
		t.Fatalf("unexpected team: %+v", team)
	}
	if team.Sport != model.SportMMA || team.ShortName != "Bones" {
		t.Errorf("wrong shape: %+v", team)
	}
}

func TestFindTeamNoMatch(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := a.FindTeam(context.Background(), adapter.TeamQuery{Name: "Unknown Fighter"})
	if !adapter.IsCode(err, adapter.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetInjuriesEmptySuccess(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("injuries must not hit the provider")
	})

	injuries, err := a.GetInjuries(context.Background(), "Jon Jones")
	if err != nil {
		t.Fatalf("GetInjuries: %v", err)
	}
	if injuries == nil {
		t.Fatal("expected an empty slice, not nil")
	}
	if len(injuries) != 0 {
		t.Fatalf("expected no injuries, got %d", len(injuries))
	}
}

func TestGetH2HFiltersToOpponent(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fighters":
			w.Write([]byte(fightersPayload))
		case "/fighters/f-100/fights":
			w.Write([]byte(`[
				{"id": "b-1", "fighter_id": "f-100", "opponent_id": "f-200", "fighter": "Jon Jones", "opponent": "Deiveson Figueiredo", "date": "2024-06-01", "result": "win", "event": "UFC 300"},
				{"id": "b-2", "fighter_id": "f-100", "opponent_id": "f-999", "fighter": "Jon Jones", "opponent": "Someone Else", "date": "2023-03-04", "result": "win", "event": "UFC 285"}
			]`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})

	h2h, err := a.GetH2H(context.Background(), adapter.H2HQuery{
		Team1: "Jon Jones",
		Team2: "Figueiredo",
	})
	if err != nil {
		t.Fatalf("GetH2H: %v", err)
	}
	if h2h.TotalMeetings != 1 {
		t.Fatalf("meetings = %d, want 1", h2h.TotalMeetings)
	}
	if h2h.Team1Wins != 1 || h2h.Team2Wins != 0 {
		t.Errorf("record = %d-%d, want 1-0", h2h.Team1Wins, h2h.Team2Wins)
	}
}

func TestGetRecentGamesSummary(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fighters/f-100/fights" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": "b-1", "fighter_id": "f-100", "opponent_id": "f-200", "date": "2024-06-01", "result": "win"},
			{"id": "b-2", "fighter_id": "f-100", "opponent_id": "f-300", "date": "2023-11-11", "result": "loss"},
			{"id": "b-3", "fighter_id": "f-100", "opponent_id": "f-400", "date": "2026-01-17", "status": "upcoming"}
		]`))
	})

	recent, err := a.GetRecentGames(context.Background(), "f-100", 3)
	if err != nil {
		t.Fatalf("GetRecentGames: %v", err)
	}
	want := model.RecentSummary{Wins: 1, Losses: 1}
	if recent.Summary != want {
		t.Errorf("summary = %+v, want %+v", recent.Summary, want)
	}
}

func TestGetTeamStatsIgnoresSeason(t *testing.T) {
	a := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fighters/f-100/record" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"fighter_id": "f-100", "wins": 27, "losses": 1, "draws": 0, "ko_wins": 10, "sub_wins": 7, "dec_wins": 10}`))
	})

	stats, err := a.GetTeamStats(context.Background(), adapter.StatsQuery{TeamID: "f-100", Season: "2024"})
	if err != nil {
		t.Fatalf("GetTeamStats: %v", err)
	}
	if stats.Season != "" {
		t.Errorf("season should be empty for a career record, got %q", stats.Season)
	}
	if stats.Wins != 27 || stats.Played != 28 {
		t.Errorf("record = %+v", stats)
	}
}
