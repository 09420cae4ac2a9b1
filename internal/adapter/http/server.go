// Package http exposes the service endpoints: health, readiness, metrics,
// the station catalog, cached snapshots, and the token-protected refresh
// trigger. No core logic lives here.
package http

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chipap/mareas-service/internal/adapter/store"
	"github.com/chipap/mareas-service/internal/domain"
	"github.com/chipap/mareas-service/internal/pipeline"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SnapshotReader serves the latest persisted snapshot per station.
type SnapshotReader interface {
	Read(stationID string) (*domain.Snapshot, error)
}

// Refresher triggers update runs.
type Refresher interface {
	RefreshAll(ctx context.Context) pipeline.Summary
	RefreshStation(ctx context.Context, stationID string) error
}

// Catalog lists the configured stations.
type Catalog interface {
	All() []domain.Station
}

// Deps bundles the collaborators the server exposes.
type Deps struct {
	Ready     ReadinessChecker
	Catalog   Catalog
	Snapshots SnapshotReader
	Refresher Refresher

	// JobToken guards the refresh trigger. Empty rejects every trigger.
	JobToken string
}

// Server is the HTTP surface of the service.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer wires the router. Refresh runs can span many stations, so the
// write timeout is generous compared to the read endpoints.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		deps:   deps,
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/estaciones", s.handleStations).Methods(http.MethodGet)
	r.HandleFunc("/alturas/{estacion}", s.handleHeights).Methods(http.MethodGet)
	r.HandleFunc("/actualizar-mareas", s.handleRefreshAll).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/actualizar-mareas/{estacion}", s.handleRefreshStation).Methods(http.MethodGet, http.MethodPost)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.deps.Ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.All())
}

func (s *Server) handleHeights(w http.ResponseWriter, r *http.Request) {
	stationID := mux.Vars(r)["estacion"]

	snap, err := s.deps.Snapshots.Read(stationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "no hay datos para la estación " + stationID,
			})
			return
		}
		s.logger.Error("snapshot read failed", "station_id", stationID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "error al cargar datos"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// refreshResponse mirrors the historical trigger contract: HTTP 200 with the
// per-station outcome, even when some stations failed.
type refreshResponse struct {
	OK     []string       `json:"ok"`
	Errors []stationError `json:"errores"`
}

type stationError struct {
	StationID string `json:"estacion"`
	Error     string `json:"error"`
}

func (s *Server) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	summary := s.deps.Refresher.RefreshAll(r.Context())

	resp := refreshResponse{OK: summary.OK, Errors: []stationError{}}
	if resp.OK == nil {
		resp.OK = []string{}
	}
	for _, f := range summary.Failed {
		resp.Errors = append(resp.Errors, stationError{StationID: f.StationID, Error: f.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefreshStation(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	stationID := mux.Vars(r)["estacion"]

	err := s.deps.Refresher.RefreshStation(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownStation) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, refreshResponse{
			OK:     []string{},
			Errors: []stationError{{StationID: stationID, Error: err.Error()}},
		})
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{OK: []string{stationID}, Errors: []stationError{}})
}

// authorized checks the job token: Authorization: Bearer <token>, with query
// and form fallbacks for callers that cannot set headers. Comparison is
// constant time. An unconfigured token rejects everything.
func (s *Server) authorized(r *http.Request) bool {
	if s.deps.JobToken == "" {
		return false
	}
	return hmac.Equal([]byte(extractToken(r)), []byte(s.deps.JobToken))
}

func extractToken(r *http.Request) string {
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	return r.PostFormValue("token")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
