package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTripAndExpiry(t *testing.T) {
	cache := NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, "states", []models.State{{ID: 1, Name: "Goa"}}, time.Minute))

	var states []models.State
	found, err := cache.GetJSON(ctx, "states", &states)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []models.State{{ID: 1, Name: "Goa"}}, states)

	require.NoError(t, cache.SetJSON(ctx, "stale", "x", -time.Second))
	var stale string
	found, err = cache.GetJSON(ctx, "stale", &stale)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 1, cache.Cleanup(ctx))
	size, _ := cache.Size(ctx)
	assert.Equal(t, 1, size)
}

func TestMemoryCacheEvictsEarliestExpiry(t *testing.T) {
	cache := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, "short", 1, time.Minute))
	require.NoError(t, cache.SetJSON(ctx, "long", 2, time.Hour))
	require.NoError(t, cache.SetJSON(ctx, "newest", 3, time.Hour))

	var value int
	found, _ := cache.GetJSON(ctx, "short", &value)
	assert.False(t, found)
	found, _ = cache.GetJSON(ctx, "long", &value)
	assert.True(t, found)

	// Overwriting an existing key never evicts
	require.NoError(t, cache.SetJSON(ctx, "long", 4, time.Hour))
	size, _ := cache.Size(ctx)
	assert.Equal(t, 2, size)

	require.NoError(t, cache.Delete(ctx, "long", "missing"))
	require.NoError(t, cache.Clear(ctx))
	size, _ = cache.Size(ctx)
	assert.Equal(t, 0, size)
}

func TestCachedCatalogServesFromCache(t *testing.T) {
	store, db := testutil.SetupSeededStore(t)
	cached := NewCachedCatalogService(NewCatalogService(store, testExecutor()), NewMemoryCache(100), time.Minute)
	ctx := context.Background()

	first, err := cached.ListStates(ctx)
	require.NoError(t, err)

	// Data changes underneath are hidden until invalidation
	testutil.InsertState(t, db, models.State{ID: 50, Name: "Assam"})
	second, err := cached.ListStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	snapshot := cached.Metrics().GetSnapshot()
	assert.Equal(t, int64(1), snapshot.Hits)
	assert.Equal(t, int64(1), snapshot.Misses)

	require.NoError(t, cached.InvalidateState(ctx, 50))
	third, err := cached.ListStates(ctx)
	require.NoError(t, err)
	assert.Len(t, third, len(first)+1)

	top, err := cached.TopCutoffsForState(ctx, testutil.StateKarnataka)
	require.NoError(t, err)
	topAgain, err := cached.TopCutoffsForState(ctx, testutil.StateKarnataka)
	require.NoError(t, err)
	assert.Equal(t, top, topAgain)
}

func TestCachedCatalogDoesNotCacheFailuresOrMisses(t *testing.T) {
	store := &fakeStore{err: errStoreDown}
	cache := NewMemoryCache(100)
	cached := NewCachedCatalogService(NewCatalogService(store, testExecutor()), cache, time.Minute)
	ctx := context.Background()

	_, err := cached.ListStates(ctx)
	require.Error(t, err)
	size, _ := cache.Size(ctx)
	assert.Equal(t, 0, size)

	store.err = nil
	store.states = []models.State{{ID: 1, Name: "Goa"}}
	states, err := cached.ListStates(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 1)

	name, err := cached.GetStateName(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, name)
	size, _ = cache.Size(ctx)
	assert.Equal(t, 1, size)
}

func TestWarmupCachePreloadsStatesAndColleges(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)
	cache := NewMemoryCache(100)
	cached := NewCachedCatalogService(NewCatalogService(store, testExecutor()), cache, time.Minute)
	ctx := context.Background()

	require.NoError(t, cached.WarmupCache(ctx))

	// states + all colleges + one list per state
	size, _ := cache.Size(ctx)
	assert.Equal(t, 2+4, size)

	var colleges []models.College
	found, err := cache.GetJSON(ctx, "colleges:state:1", &colleges)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, colleges, 2)

	stats := cached.GetCacheStats(ctx)
	assert.Equal(t, "memory", stats["type"])
	assert.Equal(t, 6, stats["size"])
}

func TestRedisCache(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("Skipping Redis cache test - TEST_REDIS_URL not set")
	}

	cache, err := NewRedisCache(redisURL, "neet-cutoffs-test:")
	if err != nil {
		t.Skipf("Skipping Redis cache test - redis not available: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Clear(ctx))

	require.NoError(t, cache.SetJSON(ctx, "states", []models.State{{ID: 1, Name: "Goa"}}, time.Minute))
	var states []models.State
	found, err := cache.GetJSON(ctx, "states", &states)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, states, 1)

	found, err = cache.GetJSON(ctx, "missing", &states)
	require.NoError(t, err)
	assert.False(t, found)

	size, err := cache.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	require.NoError(t, cache.Delete(ctx, "states"))
	size, _ = cache.Size(ctx)
	assert.Equal(t, 0, size)
	assert.Equal(t, 0, cache.Cleanup(ctx))
}
