package shared

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// UnifiedConfiguration holds all configuration parameters for the entire application
type UnifiedConfiguration struct {
	Service    ServiceConfig    `json:"service"`
	Database   DatabaseConfig   `json:"database"`
	Cache      CacheConfig      `json:"cache"`
	Prediction PredictionConfig `json:"prediction"`
	Jobs       JobsConfig       `json:"jobs"`
	Logging    LoggingConfig    `json:"logging"`
}

// ServiceConfig holds HTTP service configuration
type ServiceConfig struct {
	Port             string        `json:"port"`
	ReadTimeout      time.Duration `json:"read_timeout"`
	WriteTimeout     time.Duration `json:"write_timeout"`
	PredictRateLimit int           `json:"predict_rate_limit"`
	MaxRetryAttempts int           `json:"max_retries"`
	EnableMetrics    bool          `json:"enable_metrics"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver             string        `json:"driver"`
	URL                string        `json:"-"`
	MaxOpenConns       int           `json:"max_open_conns"`
	MaxIdleConns       int           `json:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `json:"conn_max_idle_time"`
	PingTimeout        time.Duration `json:"ping_timeout"`
	SlowQueryThreshold time.Duration `json:"slow_query_threshold"`
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL time.Duration `json:"default_ttl"`
	MaxSize    int           `json:"max_size"`
	RedisURL   string        `json:"-"`
	KeyPrefix  string        `json:"key_prefix"`
}

// PredictionConfig holds the admission-chance thresholds, expressed as
// multiples of a cutoff's closing rank.
type PredictionConfig struct {
	HighRatio   float64 `json:"high_ratio"`
	MediumRatio float64 `json:"medium_ratio"`
}

// JobsConfig holds cron specs for background jobs
type JobsConfig struct {
	CacheCleanupSchedule string `json:"cache_cleanup_schedule"`
	CacheWarmupSchedule  string `json:"cache_warmup_schedule"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Format      string `json:"format"`
	ServiceName string `json:"service_name"`
}

// NewDefaultUnifiedConfiguration returns production-ready default configuration
func NewDefaultUnifiedConfiguration() *UnifiedConfiguration {
	return &UnifiedConfiguration{
		Service: ServiceConfig{
			Port:             "8080",
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     10 * time.Second,
			PredictRateLimit: 30,
			MaxRetryAttempts: 2,
			EnableMetrics:    true,
		},
		Database: DatabaseConfig{
			Driver:             "postgres",
			MaxOpenConns:       25,
			MaxIdleConns:       5,
			ConnMaxLifetime:    5 * time.Minute,
			ConnMaxIdleTime:    5 * time.Minute,
			PingTimeout:        5 * time.Second,
			SlowQueryThreshold: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			DefaultTTL: 15 * time.Minute,
			MaxSize:    1000,
			KeyPrefix:  "neet-cutoffs:",
		},
		Prediction: PredictionConfig{
			HighRatio:   0.9,
			MediumRatio: 1.1,
		},
		Jobs: JobsConfig{
			CacheCleanupSchedule: "@every 10m",
			CacheWarmupSchedule:  "@every 1h",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "neet-cutoff-backend",
		},
	}
}

// ValidateAndApplyDefaults validates configuration and applies defaults for invalid values
func (c *UnifiedConfiguration) ValidateAndApplyDefaults() {
	logger := logrus.WithField("component", "UnifiedConfiguration")
	defaults := NewDefaultUnifiedConfiguration()

	if c.Service.Port == "" {
		c.Service.Port = defaults.Service.Port
		logger.Debug("Applied default Service.Port")
	}

	if c.Service.ReadTimeout <= 0 {
		c.Service.ReadTimeout = defaults.Service.ReadTimeout
		logger.Debug("Applied default Service.ReadTimeout")
	}

	if c.Service.WriteTimeout <= 0 {
		c.Service.WriteTimeout = defaults.Service.WriteTimeout
		logger.Debug("Applied default Service.WriteTimeout")
	}

	if c.Service.PredictRateLimit <= 0 {
		c.Service.PredictRateLimit = defaults.Service.PredictRateLimit
		logger.Debug("Applied default Service.PredictRateLimit")
	}

	if c.Service.MaxRetryAttempts < 0 {
		c.Service.MaxRetryAttempts = defaults.Service.MaxRetryAttempts
		logger.Debug("Applied default Service.MaxRetryAttempts")
	}

	// Validate Database Config
	if c.Database.Driver == "" {
		c.Database.Driver = defaults.Database.Driver
		logger.Debug("Applied default Database.Driver")
	}

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
		logger.Debug("Applied default Database.MaxOpenConns")
	}

	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
		logger.Debug("Applied default Database.MaxIdleConns")
	}

	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = defaults.Database.ConnMaxLifetime
		logger.Debug("Applied default Database.ConnMaxLifetime")
	}

	if c.Database.ConnMaxIdleTime <= 0 {
		c.Database.ConnMaxIdleTime = defaults.Database.ConnMaxIdleTime
		logger.Debug("Applied default Database.ConnMaxIdleTime")
	}

	if c.Database.PingTimeout <= 0 {
		c.Database.PingTimeout = defaults.Database.PingTimeout
		logger.Debug("Applied default Database.PingTimeout")
	}

	if c.Database.SlowQueryThreshold <= 0 {
		c.Database.SlowQueryThreshold = defaults.Database.SlowQueryThreshold
		logger.Debug("Applied default Database.SlowQueryThreshold")
	}

	// Validate Cache Config
	if c.Cache.DefaultTTL <= 0 {
		c.Cache.DefaultTTL = defaults.Cache.DefaultTTL
		logger.Debug("Applied default Cache.DefaultTTL")
	}

	if c.Cache.MaxSize <= 0 {
		c.Cache.MaxSize = defaults.Cache.MaxSize
		logger.Debug("Applied default Cache.MaxSize")
	}

	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = defaults.Cache.KeyPrefix
		logger.Debug("Applied default Cache.KeyPrefix")
	}

	// Medium must stay above High or the Medium band is empty
	if c.Prediction.HighRatio <= 0 || c.Prediction.MediumRatio <= 0 || c.Prediction.HighRatio > c.Prediction.MediumRatio {
		c.Prediction = defaults.Prediction
		logger.Warn("Invalid prediction thresholds, applied defaults")
	}

	if c.Jobs.CacheCleanupSchedule == "" {
		c.Jobs.CacheCleanupSchedule = defaults.Jobs.CacheCleanupSchedule
		logger.Debug("Applied default Jobs.CacheCleanupSchedule")
	}

	if c.Jobs.CacheWarmupSchedule == "" {
		c.Jobs.CacheWarmupSchedule = defaults.Jobs.CacheWarmupSchedule
		logger.Debug("Applied default Jobs.CacheWarmupSchedule")
	}

	// Validate Logging Config
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
		logger.Debug("Applied default Logging.Level")
	}

	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
		logger.Debug("Applied default Logging.Format")
	}

	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = defaults.Logging.ServiceName
		logger.Debug("Applied default Logging.ServiceName")
	}
}

// ToJSON serializes the configuration to JSON. Connection strings are not included.
func (c *UnifiedConfiguration) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
