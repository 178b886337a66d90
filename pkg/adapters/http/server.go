package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/logging"
	"github.com/aretw0/strata/pkg/codec"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/ports"
	"github.com/aretw0/strata/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server exposes the stores of a session manager over JSON.
type Server struct {
	Sessions *session.Manager
	Actions  *codec.Registry

	logger     *slog.Logger
	streamSize int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStreamBuffer sets how many diffs an event stream buffers before
// dropping messages for a slow client.
func WithStreamBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.streamSize = n
		}
	}
}

// NewHandler creates a new HTTP handler for the session manager.
// Incoming actions are decoded with registry.
func NewHandler(sessions *session.Manager, registry *codec.Registry, opts ...Option) http.Handler {
	server := &Server{
		Sessions:   sessions,
		Actions:    registry,
		logger:     logging.NewNop(),
		streamSize: 10,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/sessions", server.ListSessions)
	r.Get("/sessions/{id}/state", server.GetState)
	r.Post("/sessions/{id}/actions", server.Dispatch)
	r.Get("/sessions/{id}/events", server.SubscribeEvents)
	r.Delete("/sessions/{id}", server.DeleteSession)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "strata-http",
		"version": strings.TrimSpace(strata.Version),
		"actions": s.Actions.Types(),
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "List failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetState handles the GET /sessions/{id}/state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	store, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, statusOf(err), "Load failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, store.GetState())
}

// dispatchKey marks the ctx of one request, so its listener can tell the
// request's own dispatch apart from concurrent ones.
type dispatchKey struct{}

// Dispatch handles the POST /sessions/{id}/actions request. The session is
// created on first use. The body is a single action envelope; the response
// is the state committed by this action (including dispatches its listeners
// made), never one produced by a concurrent request.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	var env codec.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	action, err := s.Actions.Decode(env)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid action", err)
		return
	}

	sessionID := chi.URLParam(r, "id")
	store, err := s.Sessions.LoadOrStart(r.Context(), sessionID)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Session start failed", err)
		return
	}

	token := new(byte)
	ctx := context.WithValue(r.Context(), dispatchKey{}, token)

	var (
		result   domain.State
		captured bool
	)
	unsubscribe := store.Subscribe(func(ctx context.Context) {
		if ctx.Value(dispatchKey{}) == token {
			result, captured = store.GetState(), true
		}
	})
	err = store.Dispatch(ctx, action)
	unsubscribe()

	if err != nil {
		// The reducer rejected the action; the state is unchanged.
		s.fail(w, statusOf(err), "Dispatch failed", err)
		return
	}
	if !captured {
		result = store.GetState()
	}
	s.writeJSON(w, http.StatusOK, result)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, http.StatusInternalServerError, "Delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Every dispatch that changes the session's state is sent as a StateDiff.
// The optional `watch` query parameter is a comma separated list of slices;
// diffs touching none of them are skipped.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.fail(w, http.StatusInternalServerError, "Streaming not supported", errors.New("response writer cannot flush"))
		return
	}

	sessionID := chi.URLParam(r, "id")
	store, err := s.Sessions.LoadOrStart(r.Context(), sessionID)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Session start failed", err)
		return
	}

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		for _, name := range strings.Split(watch, ",") {
			watchList = append(watchList, strings.TrimSpace(name))
		}
	}

	ch, cancel := s.stream(sessionID, store, watchList)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// stream subscribes to store and forwards each non-empty diff, JSON encoded,
// to the returned channel. Messages are dropped when the channel is full.
func (s *Server) stream(sessionID string, store ports.StateStore, watchList []string) (<-chan []byte, func()) {
	ch := make(chan []byte, s.streamSize)
	last := store.GetState()

	unsubscribe := store.Subscribe(func(ctx context.Context) {
		current := store.GetState()
		diff := domain.Diff(last, current)
		last = current
		if diff == nil || !touches(diff, watchList) {
			return
		}

		data, err := json.Marshal(diff)
		if err != nil {
			s.logger.Error("Diff encode failed", "session_id", sessionID, "err", err)
			return
		}
		select {
		case ch <- data:
		default:
			s.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	})
	return ch, unsubscribe
}

func touches(diff *domain.StateDiff, watchList []string) bool {
	if len(watchList) == 0 {
		return true
	}
	for _, changed := range diff.Slices() {
		for _, name := range watchList {
			if changed == name {
				return true
			}
		}
	}
	return false
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, "err", err)
	} else {
		s.logger.Warn(msg, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: fmt.Sprintf("%s: %v", msg, err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
