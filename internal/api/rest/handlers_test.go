package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/datalayer"
	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/provider/oddsfeed"
)

// stubAdapter serves one canned team for routing tests.
type stubAdapter struct {
	sport     model.Sport
	available bool
	team      model.Team
	teamErr   error
}

func (s *stubAdapter) Sport() model.Sport { return s.sport }
func (s *stubAdapter) IsAvailable() bool  { return s.available }

func (s *stubAdapter) FindTeam(ctx context.Context, q adapter.TeamQuery) (model.Team, error) {
	return s.team, s.teamErr
}

func (s *stubAdapter) GetMatches(ctx context.Context, q adapter.MatchQuery) ([]model.Match, error) {
	return nil, nil
}

func (s *stubAdapter) GetTeamStats(ctx context.Context, q adapter.StatsQuery) (model.TeamStats, error) {
	return model.TeamStats{}, nil
}

func (s *stubAdapter) GetRecentGames(ctx context.Context, teamID string, limit int) (model.RecentGames, error) {
	return model.RecentGames{}, nil
}

func (s *stubAdapter) GetH2H(ctx context.Context, q adapter.H2HQuery) (model.H2H, error) {
	return model.H2H{}, nil
}

func (s *stubAdapter) GetInjuries(ctx context.Context, team string) ([]model.Injury, error) {
	return nil, nil
}

// stubOdds records the last query so routing tests can assert on it.
type stubOdds struct {
	lastQuery oddsfeed.OddsQuery
}

func (s *stubOdds) Configured() bool { return true }

func (s *stubOdds) Odds(ctx context.Context, q oddsfeed.OddsQuery) ([]oddsfeed.EventOdds, error) {
	s.lastQuery = q
	return nil, nil
}

func testRouter(facade *datalayer.Facade) *mux.Router {
	handler := NewHandler(facade, map[string]func() error{
		"cache": func() error { return nil },
	})
	router := mux.NewRouter()
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	api := router.PathPrefix("/api/v1/{sport}").Subrouter()
	api.HandleFunc("/team", handler.ResolveTeam).Methods("GET")
	api.HandleFunc("/odds", handler.GetOdds).Methods("GET")
	api.HandleFunc("/edge", handler.ComputeEdge).Methods("POST")
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

func TestResolveTeamSuccessEnvelope(t *testing.T) {
	stub := &stubAdapter{
		sport:     model.SportSoccer,
		available: true,
		team:      model.Team{ID: "33", Name: "Manchester United", Sport: model.SportSoccer},
	}
	router := testRouter(datalayer.New([]adapter.SportAdapter{stub}))

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/soccer/team?name=Manchester+United", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !env.Success || env.Error != nil {
		t.Fatalf("expected success envelope, got %+v", env)
	}
	team, ok := env.Data.(map[string]interface{})
	if !ok || team["name"] != "Manchester United" {
		t.Fatalf("unexpected data payload: %+v", env.Data)
	}
}

func TestResolveTeamMissingName(t *testing.T) {
	router := testRouter(datalayer.New(nil))

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/soccer/team", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Success || env.Error == nil || env.Error.Code != "INVALID_QUERY" {
		t.Fatalf("expected INVALID_QUERY error envelope, got %+v", env)
	}
}

func TestResolveTeamNotFoundStatus(t *testing.T) {
	stub := &stubAdapter{
		sport:     model.SportSoccer,
		available: true,
		teamErr:   adapter.NotFound("no team matching %q", "Unknown FC"),
	}
	router := testRouter(datalayer.New([]adapter.SportAdapter{stub}))

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/soccer/team?name=Unknown+FC", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %+v", env)
	}
}

func TestUnavailableAdapterMapsTo503(t *testing.T) {
	stub := &stubAdapter{sport: model.SportSoccer, available: false}
	router := testRouter(datalayer.New([]adapter.SportAdapter{stub}))

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/soccer/team?name=Arsenal", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "UNAVAILABLE" {
		t.Fatalf("expected UNAVAILABLE, got %+v", env)
	}
}

func TestGetOddsPassesMarketFilter(t *testing.T) {
	src := &stubOdds{}
	router := testRouter(datalayer.New(nil, datalayer.WithOddsSource(src)))

	// No events behind the stub, so the request 404s; the filter must
	// still reach the provider query.
	doRequest(t, router, http.MethodGet, "/api/v1/basketball/odds?home=A&away=B&markets=h2h,+totals,", "")
	if len(src.lastQuery.Markets) != 2 || src.lastQuery.Markets[0] != "h2h" || src.lastQuery.Markets[1] != "totals" {
		t.Fatalf("market filter not forwarded, provider saw %v", src.lastQuery.Markets)
	}
}

func TestComputeEdgeRejectsBadBody(t *testing.T) {
	router := testRouter(datalayer.New(nil))

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/basketball/edge", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "INVALID_QUERY" {
		t.Fatalf("expected INVALID_QUERY, got %+v", env)
	}
}

func TestHealthCheckReportsDependencies(t *testing.T) {
	stub := &stubAdapter{sport: model.SportSoccer, available: true}
	router := testRouter(datalayer.New([]adapter.SportAdapter{stub}))

	rec, env := doRequest(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected health payload: %+v", env.Data)
	}
	deps, ok := data["dependencies"].(map[string]interface{})
	if !ok || deps["cache"] != "ok" {
		t.Fatalf("expected cache dependency ok, got %+v", data)
	}
}
