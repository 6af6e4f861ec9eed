package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

const (
	maxBodyBytes      = 64 << 10
	testEventSource   = "admin"
	defaultTestType   = "other"
	errFailedToLoad   = "failed_to_load"
	errCityRequired   = "city_required"
	errInvalidPayload = "invalid_payload"
)

// EventService serves the fused snapshot.
type EventService interface {
	Current(ctx context.Context) (domain.Snapshot, error)
	Invalidate()
	LastFetch() (time.Time, bool)
}

// TestEventStore accepts operator test notes.
type TestEventStore interface {
	AddTestEvent(ctx context.Context, ev domain.TestEvent) (domain.TestEvent, error)
	ClearTestEvents(ctx context.Context) (int64, error)
}

// Options carries the values reported by /api/status.
type Options struct {
	EventTTL        time.Duration
	RefreshInterval time.Duration
}

// Checks combines several readiness checkers; all must pass.
type Checks []sharedobs.ReadinessChecker

// CheckReadiness runs every check and joins the failures.
func (c Checks) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, check := range c {
		if err := check.CheckReadiness(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Server exposes health, readiness, metrics and the events API.
type Server struct {
	httpServer *http.Server
	events     EventService
	tests      TestEventStore
	opts       Options
	logger     *slog.Logger
}

// NewServer wires the routes. Test-event routes are only registered when a
// store is given.
func NewServer(addr string, ready sharedobs.ReadinessChecker, events EventService, tests TestEventStore, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		events: events,
		tests:  tests,
		opts:   opts,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	if tests != nil {
		mux.HandleFunc("POST /api/test-events", s.handleAddTestEvent)
		mux.HandleFunc("DELETE /api/test-events", s.handleClearTestEvents)
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

type eventsResponse struct {
	Events    []domain.Event         `json:"events"`
	Alarms    []string               `json:"alarms"`
	Districts []domain.AlarmDistrict `json:"district_alarms"`
	Cached    bool                   `json:"cached"`
	FetchedAt time.Time              `json:"fetched_at"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap, err := s.events.Current(r.Context())
	if err != nil {
		s.logger.Error("load events", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": errFailedToLoad})
		return
	}
	resp := eventsResponse{
		Events:    snap.Events,
		Alarms:    snap.Alarms,
		Districts: snap.Districts,
		Cached:    snap.Cached,
		FetchedAt: snap.FetchedAt,
	}
	if resp.Events == nil {
		resp.Events = []domain.Event{}
	}
	if resp.Alarms == nil {
		resp.Alarms = []string{}
	}
	if resp.Districts == nil {
		resp.Districts = []domain.AlarmDistrict{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

type statusResponse struct {
	EventTTLMin       int        `json:"event_ttl_min"`
	RefreshIntervalMs int64      `json:"refresh_interval_ms"`
	LastFetch         *time.Time `json:"last_fetch"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		EventTTLMin:       int(s.opts.EventTTL / time.Minute),
		RefreshIntervalMs: s.opts.RefreshInterval.Milliseconds(),
	}
	if t, ok := s.events.LastFetch(); ok {
		resp.LastFetch = &t
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

type testEventRequest struct {
	Type      string   `json:"type"`
	City      string   `json:"city"`
	Sea       bool     `json:"sea"`
	Direction *float64 `json:"direction"`
	Note      string   `json:"note"`
}

// composeTestMessage renders the operator note the extractor will parse:
// "<type> <над|море в напрямку> <city>[ напрям N]. тест <note>".
func composeTestMessage(req testEventRequest) string {
	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = defaultTestType
	}
	prep := "над"
	if req.Sea {
		prep = "море в напрямку"
	}
	var dir string
	if req.Direction != nil {
		dir = fmt.Sprintf(" напрям %d", int(math.Round(*req.Direction)))
	}
	msg := fmt.Sprintf("%s %s %s%s. тест %s", typ, prep, strings.TrimSpace(req.City), dir, strings.TrimSpace(req.Note))
	return strings.TrimSpace(msg)
}

func (s *Server) handleAddTestEvent(w http.ResponseWriter, r *http.Request) {
	var req testEventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": errInvalidPayload})
		return
	}
	if strings.TrimSpace(req.City) == "" {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": errCityRequired})
		return
	}
	if req.Direction != nil && (math.IsNaN(*req.Direction) || math.IsInf(*req.Direction, 0)) {
		req.Direction = nil
	}

	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = defaultTestType
	}
	stored, err := s.tests.AddTestEvent(r.Context(), domain.TestEvent{
		Message:   composeTestMessage(req),
		Type:      typ,
		Direction: req.Direction,
		Source:    testEventSource,
	})
	if err != nil {
		s.logger.Error("add test event", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "store_failed"})
		return
	}
	s.events.Invalidate()
	s.logger.Info("test event added", "id", stored.ID, "message", stored.Message)
	sharedobs.WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": stored.ID, "message": stored.Message})
}

func (s *Server) handleClearTestEvents(w http.ResponseWriter, r *http.Request) {
	n, err := s.tests.ClearTestEvents(r.Context())
	if err != nil {
		s.logger.Error("clear test events", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "store_failed"})
		return
	}
	s.events.Invalidate()
	s.logger.Info("test events cleared", "count", n)
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "removed": n})
}
