// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	service "github.com/protecthire/protecthire/internal/app"
	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/pkg/logger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// IdempotencyKeyHeader lets a client retry a registration safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Search(ctx context.Context, c guard.Criteria) ([]guard.Profile, error)
	Guard(ctx context.Context, id string) (guard.Profile, error)
	RegisterGuard(ctx context.Context, reg guard.Registration, key string) (guard.Profile, bool, error)
	Estimate(ctx context.Context, id string, w booking.Window) (booking.Estimate, error)
	SubmitBooking(ctx context.Context, f booking.Form) (booking.Request, booking.Estimate, error)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	guardsHandler   *GuardsHandler
	bookingsHandler *BookingsHandler
	feed            http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithFeed serves h on GET /ws/guards.
func WithFeed(h http.Handler) Option {
	return func(s *Server) {
		s.feed = h
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		guardsHandler:   NewGuardsHandler(deps, log.Named("guards")),
		bookingsHandler: NewBookingsHandler(deps, log.Named("bookings")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /guards", MetricsMiddleware(s.guardsHandler.HandleSearch, "guards_search"))
	mux.HandleFunc("POST /guards", MetricsMiddleware(s.guardsHandler.HandleRegister, "guards_register"))
	mux.HandleFunc("GET /guards/{id}", MetricsMiddleware(s.guardsHandler.HandleGet, "guards_get"))
	mux.HandleFunc("GET /guards/{id}/estimate", MetricsMiddleware(s.guardsHandler.HandleEstimate, "guards_estimate"))
	mux.HandleFunc("POST /bookings", MetricsMiddleware(s.bookingsHandler.HandleSubmit, "bookings"))
	if s.feed != nil {
		// Not wrapped: the hijacked connection outlives the handler.
		mux.Handle("GET /ws/guards", s.feed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object from r into v, rejecting unknown
// fields and oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
