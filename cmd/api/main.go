// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"

	"github.com/carterperez-dev/maintenance-tracker/internal/admin"
	"github.com/carterperez-dev/maintenance-tracker/internal/asset"
	"github.com/carterperez-dev/maintenance-tracker/internal/auth"
	"github.com/carterperez-dev/maintenance-tracker/internal/config"
	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/health"
	"github.com/carterperez-dev/maintenance-tracker/internal/middleware"
	"github.com/carterperez-dev/maintenance-tracker/internal/migrations"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
	"github.com/carterperez-dev/maintenance-tracker/internal/server"
	"github.com/carterperez-dev/maintenance-tracker/internal/task"
	"github.com/carterperez-dev/maintenance-tracker/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	rollback := flag.Bool("rollback", false, "roll back the latest database migration and exit")
	genKeys := flag.Bool("genkeys", false, "write a new ES256 key pair to the configured paths and exit")
	flag.Parse()

	if err := run(*configPath, *migrateOnly, *rollback, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, migrateOnly, rollback, genKeys bool) error {
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

	if genKeys {
		if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
			return err
		}
		logger.Info("key pair written",
			"private_key", cfg.JWT.PrivateKeyPath,
			"public_key", cfg.JWT.PublicKeyPath,
		)
		return nil
	}

	if rollback {
		if err := migrations.Down(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("rolled back latest migration")
		return nil
	}

	if migrateOnly || cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.URL); err != nil {
			return err
		}
		version, dirty, verErr := migrations.Version(cfg.Database.URL)
		if verErr != nil {
			return verErr
		}
		logger.Info("database migrated", "version", version, "dirty", dirty)

		if migrateOnly {
			return nil
		}
	}

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
	}

	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}
	clock := schedule.NewClock(loc)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	store := redis.Store()

	userRepo := user.NewRepository(db.DB)
	roles := middleware.NewRoleResolver(userRepo, store, cfg.JWT.AccessTokenExpire)

	authSvc := auth.NewService(
		auth.NewTokenRepository(db.DB),
		auth.NewAccountRepository(db.DB),
		jwtManager,
		auth.NewBlacklist(store),
		roles,
		auth.NewLogMailer(logger),
		cfg.Invite,
	)
	authHandler := auth.NewHandler(authSvc)

	userSvc := user.NewService(userRepo, authSvc, roles)
	userHandler := user.NewHandler(userSvc)

	assetSvc := asset.NewService(asset.NewRepository(db.DB), clock)
	assetHandler := asset.NewHandler(assetSvc)

	taskSvc := task.NewService(task.NewRepository(db.DB), db.DB, clock)
	taskHandler := task.NewHandler(taskSvc)

	healthHandler := health.NewHandler(cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Users:      userSvc,
		Tasks:      taskSvc,
		Assets:     assetSvc,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	perWindow := func(requests, burst int) redis_rate.Limit {
		return middleware.PerWindow(requests, burst, cfg.RateLimit.Window)
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit:    perWindow(cfg.RateLimit.AdminRequests, cfg.RateLimit.AdminBurst),
			Keys:     redis.Keyspace(),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	roleLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		LimitFunc: middleware.RoleLimits(
			perWindow(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
			perWindow(cfg.RateLimit.AdminRequests, cfg.RateLimit.AdminBurst),
		),
		KeyFunc:  middleware.KeyByUser,
		Keys:     redis.Keyspace(),
		FailOpen: true,
	}).Handler

	authThrottle := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    perWindow(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthBurst),
		KeyFunc:  middleware.KeyByEndpoint,
		Keys:     redis.Keyspace(),
		FailOpen: true,
	}).Handler

	authenticate := middleware.Authenticator(authSvc)
	sessionRole := middleware.SessionContext(roles)
	authenticated := func(next http.Handler) http.Handler {
		return authenticate(sessionRole(roleLimiter(next)))
	}

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticated, authThrottle)

		assetHandler.RegisterRoutes(r, authenticated)
		assetHandler.RegisterAdminRoutes(r, authenticated,
			middleware.RequireCapability(middleware.ManageAssets))

		taskHandler.RegisterRoutes(r, authenticated)
		taskHandler.RegisterAdminRoutes(r, authenticated,
			middleware.RequireCapability(middleware.ManageTasks))

		userHandler.RegisterAdminRoutes(r, authenticated,
			middleware.RequireCapability(middleware.ManageUsers))

		adminHandler.RegisterRoutes(r, authenticated,
			middleware.RequireCapability(middleware.ViewAdmin))
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

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
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
