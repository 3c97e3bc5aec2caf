// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carterperez-dev/tierboard/internal/config"
	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/middleware"
)

const compressLevel = 5

// ShutdownNotifier is told when the server starts draining so readiness
// probes fail before listeners close.
type ShutdownNotifier interface {
	SetReady(ready bool)
	SetShutdown(shutdown bool)
}

type Config struct {
	ServerConfig  config.ServerConfig
	HealthHandler ShutdownNotifier
	Logger        *slog.Logger
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
	health     ShutdownNotifier
	logger     *slog.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Recoverer must stay inside RequestID and Logger so a panic is logged
	// as a 500 with its request id.
	r := chi.NewRouter()
	r.Use(otelhttp.NewMiddleware("http.server",
		otelhttp.WithSpanNameFormatter(spanName),
	))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(compressLevel))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		core.NotFound(w, "route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.NewAppError(
			core.ErrInvalidInput,
			"method not allowed",
			http.StatusMethodNotAllowed,
			core.CodeBadRequest,
		))
	})

	addr := cfg.ServerConfig.Address()

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadTimeout:       cfg.ServerConfig.ReadTimeout,
			ReadHeaderTimeout: cfg.ServerConfig.ReadTimeout,
			WriteTimeout:      cfg.ServerConfig.WriteTimeout,
			IdleTimeout:       cfg.ServerConfig.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		router: r,
		health: cfg.HealthHandler,
		logger: logger,
	}
}

func spanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving HTTP until Shutdown is called. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown flips readiness off, waits drainDelay so load balancers stop
// routing here, then lets in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if s.health != nil {
		s.health.SetReady(false)
		s.health.SetShutdown(true)
	}

	if drainDelay > 0 {
		s.logger.Info("draining connections", "delay", drainDelay)
		select {
		case <-time.After(drainDelay):
		case <-ctx.Done():
		}
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
