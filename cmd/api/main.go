package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/cache"
	"github.com/RomanCsn/workshop-DFS/internal/config"
	dbpkg "github.com/RomanCsn/workshop-DFS/internal/db"
	"github.com/RomanCsn/workshop-DFS/internal/handlers"
	infraRepo "github.com/RomanCsn/workshop-DFS/internal/infra/repository"
	"github.com/RomanCsn/workshop-DFS/internal/jobs"
	"github.com/RomanCsn/workshop-DFS/internal/log"
	"github.com/RomanCsn/workshop-DFS/internal/middleware"
	"github.com/RomanCsn/workshop-DFS/internal/payment"
	"github.com/RomanCsn/workshop-DFS/internal/routes"
	"github.com/RomanCsn/workshop-DFS/internal/server"
	"github.com/RomanCsn/workshop-DFS/internal/storage"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)
	ctx := context.Background()

	db, err := dbpkg.NewDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	// ======================================================
	// SESSION CACHE
	// ======================================================
	var (
		redisClient  *redis.Client
		sessionCache cache.SessionCache = cache.NewMemoryCache(5*time.Minute, 1000)
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		sessionCache = cache.NewRedisCache(redisClient, 5*time.Minute)
	}

	// ======================================================
	// AUTH
	// ======================================================
	signer, err := auth.NewSigner(cfg.Auth.Secret)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid auth secret")
	}

	authStore := infraRepo.NewAuthGormRepository(db, logger)
	sessions := auth.NewSessionManager(authStore, sessionCache, signer, cfg.Auth.SessionTTL, logger)
	authService := auth.NewService(authStore, sessions, cfg.Auth, logger)

	// ======================================================
	// OPTIONAL INTEGRATIONS
	// ======================================================
	var objects storage.Store
	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if objectStore != nil {
		objects = objectStore
	} else {
		logger.Warn().Msg("object storage disabled, horse photos and exports unavailable")
	}

	var payments handlers.Payments
	gateway, err := payment.NewGateway(cfg.Payments)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init payments")
	}
	if gateway != nil {
		payments = gateway
	} else {
		logger.Warn().Msg("payments disabled")
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)

	// ======================================================
	// HTTP
	// ======================================================
	validators.Register()

	httpServer := server.NewHTTPServer(cfg, logger, func(r *gin.Engine) {
		routes.RegisterRoutes(r, routes.Deps{
			Config:   cfg,
			DB:       db,
			Redis:    redisClient,
			Log:      logger,
			Auth:     authService,
			Audit:    auditDispatcher,
			Limiter:  limiter,
			Storage:  objects,
			Payments: payments,
		})
	})

	// ======================================================
	// JOBS
	// ======================================================
	scheduler := jobs.NewScheduler(
		sessions,
		authService,
		infraRepo.NewBillingGormRepository(db, logger),
		objects,
		cfg.Timezone,
		logger,
	)
	if err := scheduler.Schedule("ratelimit_cleanup", "0 */10 * * * *", func(context.Context) error {
		if n := limiter.Cleanup(); n > 0 {
			logger.Debug().Int("clients", n).Msg("idle rate limiters removed")
		}
		return nil
	}); err != nil {
		logger.Error().Err(err).Msg("scheduler setup failed")
	}
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, auditDispatcher, db, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	auditDispatcher *audit.Dispatcher,
	db *gorm.DB,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("jobs still running at shutdown")
	}

	auditDispatcher.Close()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}
	if err := dbpkg.Close(db); err != nil {
		logger.Error().Err(err).Msg("database close error")
	}

	logger.Info().Msg("server exited cleanly")
}
