package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prak-gup/SANTOOR/internal/config"
	"github.com/prak-gup/SANTOOR/internal/service/insights"
)

// Server represents the API server
type Server struct {
	config   config.ServerConfig
	handler  http.Handler
	handlers *Handlers
	server   *http.Server
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, svc *insights.Service) *Server {
	handlers := NewHandlers(svc, cfg)
	router := SetupRoutes(handlers, cfg.Server.AllowedOrigins)

	return &Server{
		config:   cfg.Server,
		handler:  router,
		handlers: handlers,
	}
}

// Handlers exposes the handler set so main can wire optional integrations.
func (s *Server) Handlers() *Handlers {
	return s.handlers
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
