// Package http exposes the gateway endpoints over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spotgate/internal/core"
)

const (
	serviceName     = "spotgate"
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	config   *core.ServerConfig
	logger   *zap.Logger
	server   *http.Server
	registry *prometheus.Registry
	metrics  *Metrics
	handlers *handlers
}

func NewServer(config *core.ServerConfig, flow Authenticator, player Player, logger *zap.Logger) *Server {
	registry := prometheus.NewRegistry()
	metrics := newMetrics(registry)

	h := &handlers{
		flow:    flow,
		player:  player,
		logger:  logger,
		metrics: metrics,
	}

	mux := setupRoutes(h, registry)

	return &Server{
		config:   config,
		logger:   logger,
		server:   createHTTPServer(config, mux),
		registry: registry,
		metrics:  metrics,
		handlers: h,
	}
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func setupRoutes(h *handlers, registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /get_url", h.getURL)
	mux.HandleFunc("POST /auth", h.auth)
	mux.HandleFunc("GET /me", h.me)
	mux.HandleFunc("GET /current_playing", h.currentPlaying)
	mux.HandleFunc("POST /start_playback", h.startPlayback)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeRaw(w, "application/json", fmt.Sprintf(`{"status":"ok","service":%q}`, serviceName))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeRaw(w, "application/json", fmt.Sprintf(`{"status":"ready","service":%q}`, serviceName))
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return mux
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}
