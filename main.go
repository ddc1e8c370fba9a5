package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/config"
	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/handlers"
	"github.com/fenilmodi00/neet-cutoff-backend/jobs"
	"github.com/fenilmodi00/neet-cutoff-backend/services"
	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig().Unified()
	shared.ConfigureLogging(cfg.Logging)
	if effective, err := cfg.ToJSON(); err == nil {
		logrus.Debugf("Effective configuration: %s", effective)
	}

	dialect, err := database.ParseDialect(cfg.Database.Driver)
	if err != nil {
		logrus.Fatalf("Invalid database configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Schema is created only when missing; rows are loaded out-of-band
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		logrus.Warnf("Migration warning: %v", err)
	}
	cancelMigrate()

	store := database.NewSQLStore(db, dialect)
	executor := services.NewQueryExecutor(cfg)
	catalogService := services.NewCatalogService(store, executor)
	predictorService := services.NewPredictorService(store, executor, cfg.Prediction)

	cache := newCache(cfg.Cache)
	if closer, ok := cache.(io.Closer); ok {
		defer closer.Close()
	}
	cachedCatalog := services.NewCachedCatalogService(catalogService, cache, cfg.Cache.DefaultTTL)

	logrus.WithFields(logrus.Fields{
		"driver":        dialect,
		"cache_backend": cache.Backend(),
		"cache_ttl":     cfg.Cache.DefaultTTL,
		"high_ratio":    cfg.Prediction.HighRatio,
		"medium_ratio":  cfg.Prediction.MediumRatio,
	}).Info("Cutoff backend services initialized")

	// Warmup cache on startup
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := cachedCatalog.WarmupCache(ctx); err != nil {
			logrus.Warnf("Cache warmup failed: %v", err)
		}
	}()

	scheduler := jobs.NewScheduler()
	err = scheduler.RegisterCacheJobs(cfg.Jobs,
		jobs.NewCacheCleanupJob(cache),
		jobs.NewCacheWarmupJob(cachedCatalog),
	)
	if err != nil {
		logrus.Fatalf("Failed to schedule jobs: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Logging.ServiceName,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
	})

	routes := handlers.Routes{
		Catalog:          handlers.NewCatalogHandler(cachedCatalog),
		Predict:          handlers.NewPredictHandler(predictorService),
		System:           handlers.NewSystemHandler(store),
		PredictRateLimit: cfg.Service.PredictRateLimit,
	}
	if cfg.Service.EnableMetrics {
		routes.Metrics = handlers.NewMetricsHandler(db, catalogService, predictorService, executor, cachedCatalog)
	}
	handlers.SetupRoutes(app, routes)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logrus.Info("Shutting down server")
		catalogService.Metrics().LogSummary()
		predictorService.Metrics().LogSummary()
		executor.Metrics().LogDatabaseSummary()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.Errorf("Server shutdown failed: %v", err)
		}
	}()

	// Start server
	logrus.Infof("Server starting on port %s", cfg.Service.Port)
	if err := app.Listen(":" + cfg.Service.Port); err != nil {
		logrus.Errorf("Server stopped: %v", err)
	}
}

// newCache prefers Redis when configured and reachable
func newCache(config shared.CacheConfig) services.Cache {
	if config.RedisURL != "" {
		redisCache, err := services.NewRedisCache(config.RedisURL, config.KeyPrefix)
		if err == nil {
			logrus.Info("Using Redis cache")
			return redisCache
		}
		logrus.Warnf("Redis unavailable, falling back to in-memory cache: %v", err)
	}
	return services.NewMemoryCache(config.MaxSize)
}
