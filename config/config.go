package config

import (
	"os"
	"strconv"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort           string
	DatabaseDriver       string
	DatabaseURL          string
	RedisURL             string
	CacheTTLMinutes      string
	CacheMaxSize         string
	LogLevel             string
	LogFormat            string
	PredictHighRatio     string
	PredictMediumRatio   string
	PredictRateLimit     string
	CacheCleanupSchedule string
	CacheWarmupSchedule  string
}

// LoadConfig reads .env when present and then the process environment
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return FromEnv()
}

// FromEnv builds a Config from the current environment only
func FromEnv() *Config {
	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		DatabaseDriver:       getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		CacheTTLMinutes:      getEnv("CACHE_TTL_MINUTES", "15"),
		CacheMaxSize:         getEnv("CACHE_MAX_SIZE", "1000"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		PredictHighRatio:     getEnv("PREDICT_HIGH_RATIO", ""),
		PredictMediumRatio:   getEnv("PREDICT_MEDIUM_RATIO", ""),
		PredictRateLimit:     getEnv("PREDICT_RATE_LIMIT", "30"),
		CacheCleanupSchedule: getEnv("CACHE_CLEANUP_SCHEDULE", ""),
		CacheWarmupSchedule:  getEnv("CACHE_WARMUP_SCHEDULE", ""),
	}
}

// GetCacheTTL returns the cache TTL from environment or default
func (c *Config) GetCacheTTL() time.Duration {
	if c.CacheTTLMinutes == "" {
		return 15 * time.Minute
	}

	minutes, err := strconv.Atoi(c.CacheTTLMinutes)
	if err != nil || minutes <= 0 {
		logrus.Warnf("Invalid CACHE_TTL_MINUTES value: %s, using default 15 minutes", c.CacheTTLMinutes)
		return 15 * time.Minute
	}

	return time.Duration(minutes) * time.Minute
}

// Unified merges the environment values over the default unified configuration
func (c *Config) Unified() *shared.UnifiedConfiguration {
	unified := shared.NewDefaultUnifiedConfiguration()

	unified.Service.Port = c.ServerPort
	unified.Service.PredictRateLimit = parseInt("PREDICT_RATE_LIMIT", c.PredictRateLimit, unified.Service.PredictRateLimit)

	unified.Database.Driver = c.DatabaseDriver
	unified.Database.URL = c.DatabaseURL

	unified.Cache.DefaultTTL = c.GetCacheTTL()
	unified.Cache.MaxSize = parseInt("CACHE_MAX_SIZE", c.CacheMaxSize, unified.Cache.MaxSize)
	unified.Cache.RedisURL = c.RedisURL

	unified.Prediction.HighRatio = parseFloat("PREDICT_HIGH_RATIO", c.PredictHighRatio, unified.Prediction.HighRatio)
	unified.Prediction.MediumRatio = parseFloat("PREDICT_MEDIUM_RATIO", c.PredictMediumRatio, unified.Prediction.MediumRatio)

	if c.CacheCleanupSchedule != "" {
		unified.Jobs.CacheCleanupSchedule = c.CacheCleanupSchedule
	}
	if c.CacheWarmupSchedule != "" {
		unified.Jobs.CacheWarmupSchedule = c.CacheWarmupSchedule
	}

	unified.Logging.Level = c.LogLevel
	unified.Logging.Format = c.LogFormat

	unified.ValidateAndApplyDefaults()
	return unified
}

func parseInt(key, raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %d", key, raw, fallback)
		return fallback
	}
	return value
}

func parseFloat(key, raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %.2f", key, raw, fallback)
		return fallback
	}
	return value
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
