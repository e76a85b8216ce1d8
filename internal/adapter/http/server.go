// Package http serves a published dashboard directory for local preview.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the output directory next to the /healthz, /readyz, and
// /metrics probes.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a preview server for dir. ready gates /readyz; the CLI
// passes its pipeline, which turns ready once a dashboard is published.
func NewServer(addr, dir string, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      routes(dir, ready),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second, // dashboards with many points run to several MB
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func routes(dir string, ready sharedobs.ReadinessChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /", http.FileServer(http.Dir(dir)))
	return mux
}

// Serve listens on the configured address and blocks until ctx is done, then
// drains open connections for at most drain. A listener failure is returned
// immediately; a clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, drain time.Duration) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	s.logger.Info("http server starting", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- s.httpServer.Serve(ln) }()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.logger.Info("shutdown complete")
	return nil
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
