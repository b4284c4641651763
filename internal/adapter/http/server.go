package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-query-service/internal/domain"
)

// QueryService is the engine surface the API exposes.
type QueryService interface {
	Query(ctx context.Context, criteria domain.QueryCriteria) (domain.ResultSet, error)
	Summarize(ctx context.Context, criteria domain.QueryCriteria) (string, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the query API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	engine     QueryService
	ready      ReadinessChecker
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the query routes and the
// /healthz, /readyz, and /metrics operational routes.
func NewServer(addr string, engine QueryService, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		ready:  ready,
		logger: logger,
	}

	mux.HandleFunc("POST /v1/query", s.handleQuery)
	mux.HandleFunc("POST /v1/notes", s.handleNotes)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

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

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	criteria, ok := s.decodeCriteria(w, r)
	if !ok {
		return
	}

	result, err := s.engine.Query(r.Context(), criteria)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	criteria, ok := s.decodeCriteria(w, r)
	if !ok {
		return
	}

	notes, err := s.engine.Summarize(r.Context(), criteria)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notesResponse{Notes: notes})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// decodeCriteria parses the request body into QueryCriteria, writing a 400
// response and returning false on invalid input.
func (s *Server) decodeCriteria(w http.ResponseWriter, r *http.Request) (domain.QueryCriteria, bool) {
	var req criteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return domain.QueryCriteria{}, false
	}

	criteria, err := req.toCriteria()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.QueryCriteria{}, false
	}
	return criteria, true
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	s.logger.Error("engine request failed", "error", err)
	switch {
	case errors.Is(err, domain.ErrDataFetch), errors.Is(err, domain.ErrSummarization):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// API wire types.

type criteriaRequest struct {
	Place        string   `json:"place,omitempty"`
	MinMagnitude *float64 `json:"min_magnitude,omitempty"`
	MaxMagnitude *float64 `json:"max_magnitude,omitempty"`
	StartDate    string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	LookbackDays int      `json:"lookback_days,omitempty"`
	Regions      []string `json:"regions,omitempty"`
}

type notesResponse struct {
	Notes string `json:"notes"`
}

const requestDateLayout = "2006-01-02"

// toCriteria builds an immutable QueryCriteria value from the request,
// applying the documented defaults for unset fields.
func (r criteriaRequest) toCriteria() (domain.QueryCriteria, error) {
	c := domain.QueryCriteria{
		PlaceQuery:   r.Place,
		MinMagnitude: domain.DefaultMinMagnitude,
		MaxMagnitude: r.MaxMagnitude,
		LookbackDays: r.LookbackDays,
		Regions:      r.Regions,
	}
	if r.MinMagnitude != nil {
		c.MinMagnitude = *r.MinMagnitude
	}
	if r.StartDate != "" {
		t, err := time.Parse(requestDateLayout, r.StartDate)
		if err != nil {
			return domain.QueryCriteria{}, errors.New("invalid start_date, expected YYYY-MM-DD")
		}
		c.StartDate = t
	}
	if r.EndDate != "" {
		t, err := time.Parse(requestDateLayout, r.EndDate)
		if err != nil {
			return domain.QueryCriteria{}, errors.New("invalid end_date, expected YYYY-MM-DD")
		}
		c.EndDate = t
	}
	return c, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
