// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/tierboard/internal/admin"
	"github.com/carterperez-dev/tierboard/internal/auth"
	"github.com/carterperez-dev/tierboard/internal/board"
	"github.com/carterperez-dev/tierboard/internal/character"
	"github.com/carterperez-dev/tierboard/internal/config"
	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/health"
	"github.com/carterperez-dev/tierboard/internal/media"
	"github.com/carterperez-dev/tierboard/internal/middleware"
	"github.com/carterperez-dev/tierboard/internal/server"
	"github.com/carterperez-dev/tierboard/internal/session"
	"github.com/carterperez-dev/tierboard/internal/user"
)

const (
	drainDelay = 5 * time.Second

	authRequestsPerMinute = 10
	authBurst             = 5
	joinRequestsPerHour   = 60
	joinBurst             = 10
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			return err
		}
		logger.Info("database migrations applied", "count", applied)
	}

	deps := []health.Dependency{{Name: "database", Checker: db}}
	adminCfg := admin.HandlerConfig{
		DBStats: db.Stats,
		DBPing:  db.Ping,
	}

	var (
		rdb   *core.Redis
		store session.Store
	)
	switch cfg.Session.Store {
	case "redis":
		rdb, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

		store = session.NewRedisStore(rdb.Client)
		deps = append(deps, health.Dependency{Name: "redis", Checker: rdb})
		adminCfg.RedisStats = rdb.PoolStats
		adminCfg.RedisPing = rdb.Ping
	default:
		store = session.NewMemoryStore()
		logger.Warn("using in-memory session store; sessions do not survive restarts")
	}

	sessions, err := session.NewManager(store, cfg.Session)
	if err != nil {
		return err
	}

	images, err := media.NewService(ctx, cfg.Media)
	if err != nil {
		return err
	}
	logger.Info("media uploads configured",
		"enabled", images.Enabled(),
		"bucket", cfg.Media.Bucket,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(userSvc, sessions)
	authHandler := auth.NewHandler(authSvc, sessions)

	boardSvc := board.NewService(board.NewRepository(db.DB), userSvc)
	boardHandler := board.NewHandler(boardSvc, images)

	characterHandler := character.NewHandler(
		character.NewService(character.NewRepository(db.DB)),
	)

	healthHandler := health.NewHandler(deps...)

	adminCfg.Boards = boardSvc
	adminCfg.Users = userSvc
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	var redisClient *redis.Client
	if rdb != nil {
		redisClient = rdb.Client
	}

	router := srv.Router()

	router.Use(
		middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(sessions)
	adminOnly := middleware.RequireUser(cfg.Admin.Usernames)

	credentialLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(authRequestsPerMinute, authBurst),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	}).Handler

	joinLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Limit:    middleware.PerHour(joinRequestsPerHour, joinBurst),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(credentialLimiter)
			authHandler.RegisterRoutes(r, authenticator)
		})

		userHandler.RegisterRoutes(r, authenticator)
		boardHandler.RegisterRoutes(r, authenticator, joinLimiter)
		characterHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
