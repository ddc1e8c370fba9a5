package handlers

import (
	"database/sql"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/services"
	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/gofiber/fiber/v2"
)

// MetricsHandler reports service, query, cache and pool counters and exposes
// cache maintenance endpoints
type MetricsHandler struct {
	DB            *sql.DB
	Catalog       *services.CatalogService
	Predictor     *services.PredictorService
	Executor      *services.QueryExecutor
	CachedCatalog *services.CachedCatalogService
}

func NewMetricsHandler(db *sql.DB, catalog *services.CatalogService, predictor *services.PredictorService, executor *services.QueryExecutor, cachedCatalog *services.CachedCatalogService) *MetricsHandler {
	return &MetricsHandler{
		DB:            db,
		Catalog:       catalog,
		Predictor:     predictor,
		Executor:      executor,
		CachedCatalog: cachedCatalog,
	}
}

// GetMetrics returns current counters
func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	metrics := make(map[string]interface{})

	serviceStats := make([]shared.ServiceSnapshot, 0, 2)
	if h.Catalog != nil {
		serviceStats = append(serviceStats, h.Catalog.Metrics().GetSnapshot())
	}
	if h.Predictor != nil {
		serviceStats = append(serviceStats, h.Predictor.Metrics().GetSnapshot())
	}
	metrics["services"] = serviceStats

	if h.Executor != nil {
		metrics["queries"] = h.Executor.Metrics().GetSnapshot()
	}

	if h.CachedCatalog != nil {
		metrics["cache_stats"] = h.CachedCatalog.GetCacheStats(c.UserContext())
	}

	if h.DB != nil {
		dbStats := database.ConnectionStats(h.DB)
		metrics["database_stats"] = map[string]interface{}{
			"open_connections":     dbStats.OpenConnections,
			"in_use":               dbStats.InUse,
			"idle":                 dbStats.Idle,
			"wait_count":           dbStats.WaitCount,
			"wait_duration_ms":     dbStats.WaitDuration.Milliseconds(),
			"max_idle_closed":      dbStats.MaxIdleClosed,
			"max_idle_time_closed": dbStats.MaxIdleTimeClosed,
			"max_lifetime_closed":  dbStats.MaxLifetimeClosed,
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    metrics,
	})
}

// ResetMetrics zeroes the per-operation service counters
func (h *MetricsHandler) ResetMetrics(c *fiber.Ctx) error {
	if h.Catalog != nil {
		h.Catalog.Metrics().Reset()
	}
	if h.Predictor != nil {
		h.Predictor.Metrics().Reset()
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Metrics reset successfully",
	})
}

// ClearCache clears all cached data
func (h *MetricsHandler) ClearCache(c *fiber.Ctx) error {
	if h.CachedCatalog == nil {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Cache service not available",
		})
	}

	if err := h.CachedCatalog.InvalidateAll(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Cache clear failed: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cache cleared successfully",
	})
}

// WarmupCache pre-loads frequently accessed data
func (h *MetricsHandler) WarmupCache(c *fiber.Ctx) error {
	if h.CachedCatalog == nil {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Cache service not available",
		})
	}

	start := time.Now()
	if err := h.CachedCatalog.WarmupCache(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Cache warmup failed: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Cache warmed up successfully",
		"duration_ms": time.Since(start).Milliseconds(),
	})
}
