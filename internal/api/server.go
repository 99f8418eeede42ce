package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/newsletter/internal/config"
)

// Server wraps the HTTP server for the newsletter API.
type Server struct {
	config config.ServerConfig
	router *chi.Mux
	server *http.Server
}

// NewServer creates the API server with routes wired.
func NewServer(cfg config.ServerConfig, h *Handlers, hc *HealthChecker) *Server {
	return &Server{
		config: cfg,
		router: SetupRoutes(h, hc),
	}
}

// Router exposes the underlying router. Used by tests.
func (s *Server) Router() *chi.Mux { return s.router }

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
		// A subscribe request holds its database transaction across the
		// outbound email call; the write timeout bounds the worst case.
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
