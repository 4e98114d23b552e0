package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunTrigger starts an out-of-schedule pass in the background.
type RunTrigger interface {
	TriggerNow(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and manual-run HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /run routes. trigger may be nil, in which case /run is not registered.
func NewServer(addr string, ready sharedobs.ReadinessChecker, trigger RunTrigger, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	if trigger != nil {
		mux.HandleFunc("POST /run", s.handleRun(trigger))
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRun(trigger RunTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := trigger.TriggerNow(r.Context()); err != nil {
			s.logger.Warn("manual run rejected", "error", err)
			sharedobs.WriteJSON(w, http.StatusConflict, map[string]string{
				"status": "rejected",
				"error":  err.Error(),
			})
			return
		}
		s.logger.Info("manual run triggered")
		sharedobs.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
	}
}
