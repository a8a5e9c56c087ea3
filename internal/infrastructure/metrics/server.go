package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type ServerConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Port    int           `env:"PORT" envDefault:"9090"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type statusResponse struct {
	Status   string `json:"status"`
	Handlers int    `json:"handlers"`
}

// Server exposes /metrics plus liveness and readiness on a dedicated port.
// Readiness follows the registry: with no webhook handler bound the service
// would answer every event with 400, so it reports 503 instead.
type Server struct {
	server   *http.Server
	registry *Registry
	logger   *zap.Logger
}

func NewServer(config ServerConfig, registry *Registry, logger *zap.Logger) *Server {
	s := &Server{
		registry: registry,
		logger:   logger.Named("metrics-server"),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	mux.HandleFunc("/health", s.health)
	mux.HandleFunc("/ready", s.ready)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      mux,
		ReadTimeout:  config.Timeout,
		WriteTimeout: config.Timeout,
		IdleTimeout:  config.Timeout * 2,
	}
	return s
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Handlers: s.registry.RegisteredHandlers()})
}

func (s *Server) ready(w http.ResponseWriter, _ *http.Request) {
	n := s.registry.RegisteredHandlers()
	if n == 0 {
		s.writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not_ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ready", Handlers: n})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body statusResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("status response not written", zap.Error(err))
	}
}

// Handler exposes the mux so the endpoints can be served without binding
// the configured port.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is cancelled, then shuts the server down.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", zap.String("addr", s.server.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server failed: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop(context.Background())
	}
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("metrics server shutdown failed", zap.Error(err))
		return err
	}

	s.logger.Info("metrics server stopped")
	return nil
}

func (s *Server) Addr() string {
	return s.server.Addr
}
