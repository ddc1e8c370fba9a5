package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "DATABASE_DRIVER", "DATABASE_URL", "REDIS_URL",
		"CACHE_TTL_MINUTES", "CACHE_MAX_SIZE", "LOG_LEVEL", "LOG_FORMAT",
		"PREDICT_HIGH_RATIO", "PREDICT_MEDIUM_RATIO", "PREDICT_RATE_LIMIT",
		"CACHE_CLEANUP_SCHEDULE", "CACHE_WARMUP_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DATABASE_DRIVER", "postgres")

	unified := FromEnv().Unified()
	assert.Equal(t, "8080", unified.Service.Port)
	assert.Equal(t, "postgres", unified.Database.Driver)
	assert.Equal(t, 15*time.Minute, unified.Cache.DefaultTTL)
	assert.Equal(t, 1000, unified.Cache.MaxSize)
	assert.Equal(t, 30, unified.Service.PredictRateLimit)
	assert.Equal(t, 0.9, unified.Prediction.HighRatio)
	assert.Equal(t, 1.1, unified.Prediction.MediumRatio)
	assert.Equal(t, "@every 10m", unified.Jobs.CacheCleanupSchedule)
	assert.Equal(t, "info", unified.Logging.Level)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:cutoffs.db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL_MINUTES", "5")
	t.Setenv("CACHE_MAX_SIZE", "50")
	t.Setenv("PREDICT_HIGH_RATIO", "0.8")
	t.Setenv("PREDICT_MEDIUM_RATIO", "1.25")
	t.Setenv("PREDICT_RATE_LIMIT", "5")
	t.Setenv("CACHE_WARMUP_SCHEDULE", "0 0 * * * *")
	t.Setenv("LOG_FORMAT", "text")

	unified := FromEnv().Unified()
	assert.Equal(t, "3000", unified.Service.Port)
	assert.Equal(t, "sqlite", unified.Database.Driver)
	assert.Equal(t, "file:cutoffs.db", unified.Database.URL)
	assert.Equal(t, "redis://localhost:6379/0", unified.Cache.RedisURL)
	assert.Equal(t, 5*time.Minute, unified.Cache.DefaultTTL)
	assert.Equal(t, 50, unified.Cache.MaxSize)
	assert.Equal(t, 0.8, unified.Prediction.HighRatio)
	assert.Equal(t, 1.25, unified.Prediction.MediumRatio)
	assert.Equal(t, 5, unified.Service.PredictRateLimit)
	assert.Equal(t, "0 0 * * * *", unified.Jobs.CacheWarmupSchedule)
	assert.Equal(t, "text", unified.Logging.Format)
}

func TestInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_MAX_SIZE", "lots")
	t.Setenv("PREDICT_RATE_LIMIT", "-3")
	t.Setenv("PREDICT_HIGH_RATIO", "fast")
	t.Setenv("PREDICT_MEDIUM_RATIO", "0.5")

	unified := FromEnv().Unified()
	assert.Equal(t, 1000, unified.Cache.MaxSize)
	assert.Equal(t, 30, unified.Service.PredictRateLimit)
	// 0.9 high over 0.5 medium is rejected as a whole
	assert.Equal(t, 0.9, unified.Prediction.HighRatio)
	assert.Equal(t, 1.1, unified.Prediction.MediumRatio)
	assert.Equal(t, "8080", unified.Service.Port)
	assert.Equal(t, "postgres", unified.Database.Driver)
}

func TestGetCacheTTL(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 15 * time.Minute},
		{"30", 30 * time.Minute},
		{"0", 15 * time.Minute},
		{"-2", 15 * time.Minute},
		{"abc", 15 * time.Minute},
	}

	for _, tt := range tests {
		cfg := &Config{CacheTTLMinutes: tt.raw}
		assert.Equal(t, tt.want, cfg.GetCacheTTL(), "CACHE_TTL_MINUTES=%q", tt.raw)
	}
}
