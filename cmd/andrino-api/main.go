package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/andrino-academy/andrino-api/api/swagger"
	"github.com/andrino-academy/andrino-api/internal/handler"
	"github.com/andrino-academy/andrino-api/internal/middleware"
	"github.com/andrino-academy/andrino-api/internal/repository"
	"github.com/andrino-academy/andrino-api/internal/service"
	"github.com/andrino-academy/andrino-api/migrations"
	"github.com/andrino-academy/andrino-api/pkg/cache"
	"github.com/andrino-academy/andrino-api/pkg/config"
	"github.com/andrino-academy/andrino-api/pkg/database"
	"github.com/andrino-academy/andrino-api/pkg/jobs"
	"github.com/andrino-academy/andrino-api/pkg/logger"
	corsmiddleware "github.com/andrino-academy/andrino-api/pkg/middleware/cors"
	reqidmiddleware "github.com/andrino-academy/andrino-api/pkg/middleware/requestid"
)

// @title Andrino Academy API
// @version 1.0.0
// @description Instructor availability scheduling: weekly slot grid, save and confirm.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, migrations.FS); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
		version, _ := database.Version(ctx, db)
		logr.Info("database migrated", zap.Int64("version", version))
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Availability.CacheTTL, logr, redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	configRepo := repository.NewConfigurationRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)

	auditSvc := service.NewAuditService(repository.NewAuditRepository(db), metricsSvc, logr, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		MaxRetries: cfg.Audit.Retries,
		RetryDelay: 500 * time.Millisecond,
	})
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	authSvc := service.NewAuthService(userRepo, auditSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	settingsSvc := service.NewSettingsService(configRepo, cacheSvc, auditSvc, validate, logr, service.SettingsConfig{
		DefaultWeekResetDay: cfg.Availability.DefaultWeekResetDay,
		CacheTTL:            cfg.Availability.SettingsCacheTTL,
	})
	trackSvc := service.NewTrackService(trackRepo, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, trackRepo, settingsSvc, service.AvailabilityDeps{
		Cache:     cacheSvc,
		Audit:     auditSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
	}, service.AvailabilityConfig{CacheTTL: cfg.Availability.CacheTTL})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
		"redis":    cache.Readiness(redisClient),
	})
	handler.RegisterOperational(r, metricsHandler)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, metricsSvc)
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Tracks:       handler.NewTrackHandler(trackSvc),
		Settings:     handler.NewSettingsHandler(settingsSvc),
		Metrics:      metricsHandler,
	}, handler.RouteOptions{
		Authenticate: middleware.JWT(authSvc),
		Limit:        limiter.Middleware(),
		Audit:        auditSvc,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
