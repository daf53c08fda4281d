// Package server lets a human play against an engine agent in the browser.
// Every websocket connection gets its own game and its own agent.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/agent"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	router   chi.Router
	upgrader websocket.Upgrader
	newAgent agent.Factory
	sessions atomic.Int64
	active   atomic.Int64
}

func New(newAgent agent.Factory) *Server {
	s := &Server{
		newAgent: newAgent,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Number of currently connected players
func (s *Server) Active() int {
	return int(s.active.Load())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.Active()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	id := s.sessions.Add(1)
	engine := s.newAgent(int(id))
	logger := log.With().
		Str("request_id", middleware.GetReqID(r.Context())).
		Int64("session", id).
		Str("engine", engine.Name()).
		Logger()

	s.active.Add(1)
	defer s.active.Add(-1)

	logger.Info().Msg("session started")
	newSession(conn, engine, logger).run()
	logger.Info().Msg("session closed")
}

// Serve on addr until ctx is cancelled, then shut down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Info().Str("addr", addr).Msg("server listening")
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn().Err(err).Msg("graceful shutdown failed")
		return server.Close()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
