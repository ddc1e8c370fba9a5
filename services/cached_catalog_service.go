package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/sirupsen/logrus"
)

// Cache keys
const (
	cacheKeyStates          = "states"
	cacheKeyAllColleges     = "colleges:all"
	cacheKeyStateColleges   = "colleges:state:%d"
	cacheKeyCategories      = "categories:%d"
	cacheKeyCollege         = "college:%d"
	cacheKeyStateName       = "state_name:%d"
	cacheKeyCollegeCutoffs  = "cutoffs:college:%d"
	cacheKeyStateTopCutoffs = "cutoffs:state:%d"
)

// CachedCatalogService wraps CatalogService with read-through caching. Only
// successful results are cached, so a storage outage is never remembered.
type CachedCatalogService struct {
	catalog *CatalogService
	cache   Cache
	ttl     time.Duration
	metrics *shared.CacheMetrics
}

// NewCachedCatalogService creates a cached catalog with a default TTL
func NewCachedCatalogService(catalog *CatalogService, cache Cache, ttl time.Duration) *CachedCatalogService {
	return &CachedCatalogService{
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		metrics: shared.NewCacheMetrics(),
	}
}

// Metrics exposes hit and miss counters
func (c *CachedCatalogService) Metrics() *shared.CacheMetrics {
	return c.metrics
}

func (c *CachedCatalogService) ListStates(ctx context.Context) ([]models.State, error) {
	return readThrough(ctx, c, cacheKeyStates, c.ttl, func() ([]models.State, error) {
		return c.catalog.ListStates(ctx)
	}, alwaysCache[[]models.State])
}

func (c *CachedCatalogService) ListColleges(ctx context.Context, stateID *int64) ([]models.College, error) {
	key := cacheKeyAllColleges
	if stateID != nil {
		key = fmt.Sprintf(cacheKeyStateColleges, *stateID)
	}
	return readThrough(ctx, c, key, c.ttl, func() ([]models.College, error) {
		return c.catalog.ListColleges(ctx, stateID)
	}, alwaysCache[[]models.College])
}

func (c *CachedCatalogService) ListCategoriesForState(ctx context.Context, stateID int64) ([]string, error) {
	return readThrough(ctx, c, fmt.Sprintf(cacheKeyCategories, stateID), c.ttl, func() ([]string, error) {
		return c.catalog.ListCategoriesForState(ctx, stateID)
	}, alwaysCache[[]string])
}

func (c *CachedCatalogService) GetCollege(ctx context.Context, id int64) (*models.College, error) {
	return readThrough(ctx, c, fmt.Sprintf(cacheKeyCollege, id), c.ttl, func() (*models.College, error) {
		return c.catalog.GetCollege(ctx, id)
	}, func(college *models.College) bool { return college != nil })
}

func (c *CachedCatalogService) GetStateName(ctx context.Context, id int64) (*string, error) {
	return readThrough(ctx, c, fmt.Sprintf(cacheKeyStateName, id), c.ttl, func() (*string, error) {
		return c.catalog.GetStateName(ctx, id)
	}, func(name *string) bool { return name != nil })
}

func (c *CachedCatalogService) CutoffsForCollege(ctx context.Context, collegeID int64) ([]models.Cutoff, error) {
	return readThrough(ctx, c, fmt.Sprintf(cacheKeyCollegeCutoffs, collegeID), c.ttl, func() ([]models.Cutoff, error) {
		return c.catalog.CutoffsForCollege(ctx, collegeID)
	}, alwaysCache[[]models.Cutoff])
}

func (c *CachedCatalogService) TopCutoffsForState(ctx context.Context, stateID int64) ([]models.CutoffWithCollege, error) {
	return readThrough(ctx, c, fmt.Sprintf(cacheKeyStateTopCutoffs, stateID), c.ttl, func() ([]models.CutoffWithCollege, error) {
		return c.catalog.TopCutoffsForState(ctx, stateID)
	}, alwaysCache[[]models.CutoffWithCollege])
}

// InvalidateState removes the entries derived from one state
func (c *CachedCatalogService) InvalidateState(ctx context.Context, stateID int64) error {
	return c.cache.Delete(ctx,
		cacheKeyStates,
		cacheKeyAllColleges,
		fmt.Sprintf(cacheKeyStateColleges, stateID),
		fmt.Sprintf(cacheKeyCategories, stateID),
		fmt.Sprintf(cacheKeyStateName, stateID),
		fmt.Sprintf(cacheKeyStateTopCutoffs, stateID),
	)
}

// InvalidateAll empties the cache
func (c *CachedCatalogService) InvalidateAll(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// GetCacheStats returns cache statistics
func (c *CachedCatalogService) GetCacheStats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"type":    c.cache.Backend(),
		"metrics": c.metrics.GetSnapshot(),
	}
	if size, err := c.cache.Size(ctx); err == nil {
		stats["size"] = size
	}
	return stats
}

// WarmupCache pre-loads the states list and every college list
func (c *CachedCatalogService) WarmupCache(ctx context.Context) error {
	states, err := c.ListStates(ctx)
	if err != nil {
		return fmt.Errorf("failed to warmup states cache: %w", err)
	}

	if _, err := c.ListColleges(ctx, nil); err != nil {
		return fmt.Errorf("failed to warmup colleges cache: %w", err)
	}

	for _, state := range states {
		stateID := state.ID
		if _, err := c.ListColleges(ctx, &stateID); err != nil {
			return fmt.Errorf("failed to warmup colleges cache for state %d: %w", stateID, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"states":  len(states),
		"backend": c.cache.Backend(),
	}).Info("Catalog cache warmed up")
	return nil
}

func alwaysCache[T any](T) bool { return true }

// readThrough serves key from the cache or loads and stores it. Cache backend
// failures degrade to a direct load.
func readThrough[T any](ctx context.Context, c *CachedCatalogService, key string, ttl time.Duration, load func() (T, error), cacheable func(T) bool) (T, error) {
	var cached T
	found, err := c.cache.GetJSON(ctx, key, &cached)
	switch {
	case err != nil:
		c.metrics.RecordError()
		logrus.WithFields(logrus.Fields{
			"key":     key,
			"backend": c.cache.Backend(),
			"error":   err,
		}).Warn("Cache read failed, loading from database")
	case found:
		c.metrics.RecordHit()
		return cached, nil
	default:
		c.metrics.RecordMiss()
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if cacheable(value) {
		if err := c.cache.SetJSON(ctx, key, value, ttl); err != nil {
			c.metrics.RecordError()
			logrus.WithFields(logrus.Fields{
				"key":     key,
				"backend": c.cache.Backend(),
				"error":   err,
			}).Warn("Cache write failed")
		}
	}
	return value, nil
}
