// Package server exposes the chart over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jgoulah/csvchart/internal/logging"
	"github.com/jgoulah/csvchart/internal/metrics"
	"github.com/jgoulah/csvchart/internal/render"
)

// ChartLoader produces a freshly loaded chart for every request
type ChartLoader interface {
	Load(ctx context.Context) (*render.Chart, error)
}

// Server serves the chart page, the raw chart images and the series data
type Server struct {
	router  chi.Router
	charts  ChartLoader
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a chi based HTTP server around a chart loader
func New(charts ChartLoader, logger *slog.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		router:  chi.NewRouter(),
		charts:  charts,
		logger:  logger,
		metrics: m,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.instrument)
	s.router.Use(middleware.Recoverer)
	s.registerRoutes()

	return s
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// instrument logs each request and counts it by route pattern and status
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if pattern := rc.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			s.metrics.HTTPRequests.WithLabelValues(route, fmt.Sprint(status)).Inc()
			s.logger.Debug("http request",
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
