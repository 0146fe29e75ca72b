package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fortuna/vantage/internal/api/stream"
	"github.com/fortuna/vantage/internal/datalayer"
	"github.com/fortuna/vantage/internal/metrics"
)

// Server is the REST API server. It also mounts the metrics scrape
// endpoint and the signal stream upgrade path.
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates the REST API server. hub may be nil to disable the
// stream endpoint; checkers feed the /health dependency report.
func NewServer(port string, facade *datalayer.Facade, hub *stream.Hub, m *metrics.DataMetrics, checkers map[string]func() error) *Server {
	handler := NewHandler(facade, checkers)

	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if m != nil {
		router.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})).Methods("GET")
	}
	if hub != nil {
		router.HandleFunc("/ws/signals", hub.ServeWS)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	// Cross-sport
	api.HandleFunc("/signals/recent", handler.GetRecentSignals).Methods("GET")

	// Per-sport data access
	sport := api.PathPrefix("/{sport}").Subrouter()
	sport.HandleFunc("/team", handler.ResolveTeam).Methods("GET")
	sport.HandleFunc("/team/profile", handler.GetTeamProfile).Methods("GET")
	sport.HandleFunc("/matches", handler.GetMatches).Methods("GET")
	sport.HandleFunc("/stats", handler.GetTeamStats).Methods("GET")
	sport.HandleFunc("/form", handler.GetRecentForm).Methods("GET")
	sport.HandleFunc("/h2h", handler.GetHeadToHead).Methods("GET")
	sport.HandleFunc("/injuries", handler.GetInjuries).Methods("GET")
	sport.HandleFunc("/odds", handler.GetOdds).Methods("GET")
	sport.HandleFunc("/edge", handler.ComputeEdge).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
