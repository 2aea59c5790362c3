package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/A248/bank-data/internal/infrastructure"
	customMiddleware "github.com/A248/bank-data/internal/middleware"
)

// NewRouter builds the operational router. /metrics is only mounted when a
// Prometheus handler is available.
func NewRouter(providers *infrastructure.OTelProviders, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(logger))
	r.Use(customMiddleware.Recoverer(logger))

	health := NewHealthHandler(infrastructure.ServiceName, infrastructure.ServiceVersion)
	r.Get("/health", health.HealthCheck)
	if providers != nil && providers.PrometheusHTTP != nil {
		r.Handle("/metrics", providers.PrometheusHTTP)
	}
	return r
}

// MetricsServer serves the operational router in the background
type MetricsServer struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
	done     chan error
}

// NewMetricsServer creates a server for addr; nothing listens until Start
func NewMetricsServer(addr string, providers *infrastructure.OTelProviders, logger *slog.Logger) *MetricsServer {
	logger = infrastructure.WithComponent(logger, "metrics_server")
	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(providers, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
		done:   make(chan error, 1),
	}
}

// Start binds the listen address and serves in a goroutine
func (s *MetricsServer) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	go func() {
		err := s.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	s.logger.Info("Metrics server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *MetricsServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Shutdown stops the server and waits for the serve loop to exit
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	err := <-s.done
	s.logger.Info("Metrics server stopped")
	return err
}
