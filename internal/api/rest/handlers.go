package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/datalayer"
	"github.com/fortuna/vantage/internal/model"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	facade   *datalayer.Facade
	checkers map[string]func() error
}

// NewHandler creates a new handler. checkers maps dependency names onto
// their health probes for the /health endpoint.
func NewHandler(facade *datalayer.Facade, checkers map[string]func() error) *Handler {
	return &Handler{facade: facade, checkers: checkers}
}

func sportFrom(r *http.Request) model.Sport {
	return model.Sport(mux.Vars(r)["sport"])
}

// HealthCheck reports service and dependency health. The service stays
// healthy while any sport adapter is configured; dependency failures are
// reported but not fatal.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string, len(h.checkers))
	for name, check := range h.checkers {
		if err := check(); err != nil {
			deps[name] = err.Error()
		} else {
			deps[name] = "ok"
		}
	}

	sports := make([]string, 0)
	for _, s := range h.facade.Sports() {
		sports = append(sports, string(s))
	}

	respondJSON(w, map[string]interface{}{
		"status":       "healthy",
		"service":      "vantage",
		"sports":       sports,
		"dependencies": deps,
	})
}

// ResolveTeam handles GET /{sport}/team?name=&league=.
func (h *Handler) ResolveTeam(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondAdapterError(w, adapter.InvalidQuery("name query parameter is required"))
		return
	}

	team, err := h.facade.ResolveTeam(r.Context(), sportFrom(r), adapter.TeamQuery{
		Name:   name,
		League: r.URL.Query().Get("league"),
	})
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, team)
}

// GetTeamProfile handles GET /{sport}/team/profile?name=&league=.
func (h *Handler) GetTeamProfile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondAdapterError(w, adapter.InvalidQuery("name query parameter is required"))
		return
	}

	profile, err := h.facade.GetTeamProfile(r.Context(), sportFrom(r), adapter.TeamQuery{
		Name:   name,
		League: r.URL.Query().Get("league"),
	})
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, profile)
}

// GetMatches handles GET /{sport}/matches?date=&team=&season=.
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches, err := h.facade.GetMatches(r.Context(), sportFrom(r), adapter.MatchQuery{
		Date:   q.Get("date"),
		Team:   q.Get("team"),
		Season: q.Get("season"),
	})
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetTeamStats handles GET /{sport}/stats?team_id=&season=.
func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		respondAdapterError(w, adapter.InvalidQuery("team_id query parameter is required"))
		return
	}

	stats, err := h.facade.GetTeamStats(r.Context(), sportFrom(r), adapter.StatsQuery{
		TeamID: teamID,
		Season: r.URL.Query().Get("season"),
	})
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, stats)
}

// GetRecentForm handles GET /{sport}/form?team_id=&limit=.
func (h *Handler) GetRecentForm(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		respondAdapterError(w, adapter.InvalidQuery("team_id query parameter is required"))
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}

	games, err := h.facade.GetRecentForm(r.Context(), sportFrom(r), teamID, limit)
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, games)
}

// GetHeadToHead handles GET /{sport}/h2h?team1=&team2=.
func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	team1, team2 := q.Get("team1"), q.Get("team2")
	if team1 == "" || team2 == "" {
		respondAdapterError(w, adapter.InvalidQuery("team1 and team2 query parameters are required"))
		return
	}

	h2h, err := h.facade.GetHeadToHead(r.Context(), sportFrom(r), adapter.H2HQuery{
		Team1: team1,
		Team2: team2,
	})
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, h2h)
}

// GetInjuries handles GET /{sport}/injuries?team=.
func (h *Handler) GetInjuries(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if team == "" {
		respondAdapterError(w, adapter.InvalidQuery("team query parameter is required"))
		return
	}

	injuries, err := h.facade.GetInjuries(r.Context(), sportFrom(r), team)
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, map[string]interface{}{
		"injuries": injuries,
		"count":    len(injuries),
	})
}

// GetOdds handles GET /{sport}/odds?home=&away=&markets=h2h,totals.
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var markets []string
	if raw := q.Get("markets"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				markets = append(markets, m)
			}
		}
	}
	books, err := h.facade.GetOdds(r.Context(), sportFrom(r), q.Get("home"), q.Get("away"), markets)
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, map[string]interface{}{
		"books": books,
		"count": len(books),
	})
}

// edgeRequest is the POST /{sport}/edge body.
type edgeRequest struct {
	HomeTeam  string            `json:"home_team"`
	AwayTeam  string            `json:"away_team"`
	ModelProb model.Probability `json:"model_prob"`
}

// ComputeEdge handles POST /{sport}/edge.
func (h *Handler) ComputeEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAdapterError(w, adapter.InvalidQuery("invalid request body: %v", err))
		return
	}
	if req.HomeTeam == "" || req.AwayTeam == "" {
		respondAdapterError(w, adapter.InvalidQuery("home_team and away_team are required"))
		return
	}

	signal, err := h.facade.ComputeEdge(r.Context(), sportFrom(r), req.HomeTeam, req.AwayTeam, req.ModelProb)
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, signal)
}

// GetRecentSignals handles GET /signals/recent?limit=.
func (h *Handler) GetRecentSignals(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil {
			limit = l
		}
	}

	records, err := h.facade.RecentSignals(r.Context(), limit)
	if err != nil {
		respondAdapterError(w, err)
		return
	}
	respondJSON(w, map[string]interface{}{
		"signals": records,
		"count":   len(records),
	})
}

// apiError is the wire form of a failure.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope is the uniform response shape. Data and Error are mutually
// exclusive.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

// respondJSON writes a success envelope.
func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// respondError writes an error envelope with the status its code maps to.
func respondError(w http.ResponseWriter, apiErr *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(adapter.Code(apiErr.Code)))
	json.NewEncoder(w).Encode(envelope{Success: false, Error: apiErr})
}

func respondAdapterError(w http.ResponseWriter, err error) {
	ae := adapter.AsError(err)
	respondError(w, &apiError{Code: string(ae.Code), Message: ae.Message})
}

func statusFor(code adapter.Code) int {
	switch code {
	case adapter.CodeInvalidQuery:
		return http.StatusBadRequest
	case adapter.CodeNotFound:
		return http.StatusNotFound
	case adapter.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
