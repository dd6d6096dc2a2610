// Package server hosts chronokv's ambient HTTP surface: Prometheus scraping
// plus liveness/readiness probes. It is not the domain API — spec.md §1
// excludes network adapters for reads/writes/proposals — but every
// production Go service in the teacher's codebase exposes this much, and
// dropping it would leave the host binary unobservable. Grounded on the
// teacher's storage-node/internal/server/metrics_server.go.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chronokv/chronokv/internal/health"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds configuration for the metrics/health HTTP server.
type Config struct {
	Addr string
}

// Server serves /metrics, /health and /ready over HTTP.
type Server struct {
	httpServer *http.Server
	checker    *health.Checker
	logger     *zap.Logger
}

// New creates a metrics/health server. checker may be nil, in which case
// /health and /ready always report healthy.
func New(cfg Config, checker *health.Checker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		checker: checker,
		logger:  logger,
	}

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ready", s.readyHandler)

	return s
}

// Start begins serving in the background. Bind failures are reported
// asynchronously via the logger, matching the teacher's fire-and-forget
// ListenAndServe goroutine.
func (s *Server) Start() {
	s.logger.Info("starting metrics server", zap.String("addr", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping metrics server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	live := s.checker == nil || s.checker.IsLive()
	w.Header().Set("Content-Type", "application/json")
	if !live {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	fmt.Fprintf(w, `{"live":%t,"timestamp":%q}`, live, time.Now().Format(time.RFC3339))
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	ready := s.checker == nil || s.checker.IsReady()
	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	fmt.Fprintf(w, `{"ready":%t,"timestamp":%q}`, ready, time.Now().Format(time.RFC3339))
}
