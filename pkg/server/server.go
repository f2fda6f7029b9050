// Package server exposes reducer stores over HTTP and WebSocket.
//
// Each registered SyncTarget gets a sync endpoint at /sync/{store}. A
// client opens the socket, sends a hello frame, receives the current state,
// and from then on gets a state frame after every committed transition.
// Dispatch frames feed the store's reducer; rejected actions come back as
// error frames carrying the stable error code.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/statekit-dev/statekit/pkg/middleware"
)

// Server is the HTTP/WebSocket sync server.
type Server struct {
	config   *Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	targets map[string]SyncTarget

	httpServer *http.Server
}

// New creates a Server with the given configuration. A nil config uses
// defaults.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	} else {
		config.fillDefaults()
	}

	logger := slog.Default().With("component", "server")

	if err := config.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
	}

	return &Server{
		config: config,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		targets: make(map[string]SyncTarget),
	}
}

// Register exposes a target at /sync/{name}. Registering the same name
// twice replaces the earlier target.
func (s *Server) Register(t SyncTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[t.Name()] = t
}

func (s *Server) target(name string) (SyncTarget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[name]
	return t, ok
}

// Handler returns the server's HTTP handler for embedding in a larger
// router or an httptest server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if s.config.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/sync/{store}", s.handleSync)

	return r
}

// handleSync upgrades the connection and runs the sync session.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "store")
	target, ok := s.target(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "store", name, "error", err)
		return
	}

	c := newConn(conn, target, s.config.SendBuffer, s.logger.With("store", name))
	middleware.RecordObserverAdd(name)
	defer middleware.RecordObserverRemove(name)
	c.run()
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}
