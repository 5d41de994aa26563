// Package api serves the browser review page and drives it over websocket
// sessions.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sprite-ai/redline/internal/controller"
	"github.com/sprite-ai/redline/internal/health"
	"github.com/sprite-ai/redline/internal/logging"
	"github.com/sprite-ai/redline/internal/samples"
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Reviewer      controller.Reviewer
	Prober        health.Prober
	Loader        samples.Loader
	Jurisdictions []string
	Jurisdiction  string
	Timeout       time.Duration
}

// Server is the redline web session server.
type Server struct {
	addr   string
	deps   Deps
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

// New creates a new server listening on addr.
func New(addr string, deps Deps) *Server {
	if deps.Loader == nil {
		deps.Loader = samples.NewFSLoader()
	}
	if len(deps.Jurisdictions) == 0 && deps.Jurisdiction != "" {
		deps.Jurisdictions = []string{deps.Jurisdiction}
	}
	if deps.Jurisdiction == "" && len(deps.Jurisdictions) > 0 {
		deps.Jurisdiction = deps.Jurisdictions[0]
	}

	s := &Server{
		addr: addr,
		deps: deps,
		log:  logging.Component("api"),
	}
	s.router = s.newRouter()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler()))
	r.Get("/healthz", s.handleHealthz)
	r.Get("/samples/{name}.txt", s.handleSample)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleServiceHealth)
		r.Post("/review", s.handleReview)
	})

	return r
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("redline server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop shuts the server down, waiting up to ten seconds for open requests.
func (s *Server) Stop() error {
	s.log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log := logging.Component("api")
		log.Error().Err(err).Msg("json encode")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
