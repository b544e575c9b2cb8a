// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gemfluence/backend/internal/admin"
	"github.com/gemfluence/backend/internal/auth"
	"github.com/gemfluence/backend/internal/chat"
	"github.com/gemfluence/backend/internal/chatprovider"
	"github.com/gemfluence/backend/internal/config"
	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/gems"
	"github.com/gemfluence/backend/internal/health"
	"github.com/gemfluence/backend/internal/influencer"
	"github.com/gemfluence/backend/internal/middleware"
	"github.com/gemfluence/backend/internal/payments"
	"github.com/gemfluence/backend/internal/server"
	"github.com/gemfluence/backend/internal/user"
)

const (
	drainDelay           = 5 * time.Second
	tokenCleanupInterval = time.Hour

	// Credential endpoints get a tighter per-endpoint budget than the
	// global limiter to slow down brute forcing.
	authAttemptsPerHour = 60
	authAttemptBurst    = 10
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

	if err := core.RunMigrations(
		db.DB.DB,
		cfg.Database.MigrationsPath,
	); err != nil {
		return err
	}
	logger.Info("migrations applied", "path", cfg.Database.MigrationsPath)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	chatClient := chatprovider.NewClient(cfg.Chat)
	chatSessions := chatprovider.NewBestEffort(chatClient, logger)

	gateway := payments.NewClient(cfg.Payment)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	gemsRepo := gems.NewRepository(db.DB)
	gemsSvc := gems.NewService(
		gemsRepo,
		gateway,
		cfg.Gems.UnitPriceCents,
		logger,
	)
	gemsHandler := gems.NewHandler(gemsSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		jwtManager,
		userSvc,
		chatSessions,
		gemsSvc,
	)
	authHandler := auth.NewHandler(authSvc)

	influencerRepo := influencer.NewRepository(db.DB)
	influencerSvc := influencer.NewService(influencerRepo)
	influencerHandler := influencer.NewHandler(influencerSvc)

	chatRepo := chat.NewRepository(db.DB)
	chatSvc := chat.NewService(chatRepo, influencerSvc, chatSessions)
	chatHandler := chat.NewHandler(chatSvc)

	healthHandler := health.NewHandler(cfg.App.Version)
	healthHandler.AddCheck("postgres", db)
	healthHandler.AddCheck("redis", redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Repo:       admin.NewRepository(db.DB),
	})

	go cleanupExpiredTokens(ctx, authRepo, logger)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	if telemetry != nil {
		router.Use(middleware.Tracing(telemetry.Tracer))
	}
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	accessAuth := middleware.RequireScope(authSvc, middleware.ScopeAccessAPI)
	refreshAuth := middleware.RequireScope(
		authSvc,
		middleware.ScopeIssueAccessToken,
	)
	adminOnly := middleware.RequireAdmin

	roleLimit := middleware.RoleRateLimiter(
		redis.Client,
		middleware.DefaultRoleLimits,
	)
	authed := func(next http.Handler) http.Handler {
		return accessAuth(roleLimit(next))
	}

	authLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				authAttemptsPerHour,
				authAttemptBurst,
				time.Hour,
			),
			KeyFunc:  middleware.KeyByUserAndEndpoint,
			FailOpen: true,
		},
	)

	router.Group(func(r chi.Router) {
		r.Use(authLimiter.Handler)
		authHandler.RegisterRoutes(r, authed, refreshAuth)
	})

	gemsHandler.RegisterRoutes(router, authed)
	influencerHandler.RegisterRoutes(router, authed)
	chatHandler.RegisterRoutes(router, authed)
	userHandler.RegisterAdminRoutes(router, authed, adminOnly)
	adminHandler.RegisterRoutes(router, authed, adminOnly)

	healthHandler.SetReady(true)

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

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// cleanupExpiredTokens prunes token rows whose expiry has passed. Expired
// tokens already fail verification; this keeps the table from growing
// without bound.
func cleanupExpiredTokens(
	ctx context.Context,
	repo auth.Repository,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.Error("token cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("expired tokens pruned", "count", deleted)
			}
		}
	}
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
