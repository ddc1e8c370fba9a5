package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/sirupsen/logrus"
)

// RetryConfig holds retry configuration for database operations
type RetryConfig struct {
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// QueryExecutor runs store calls with exponential backoff and records
// database metrics for every attempt
type QueryExecutor struct {
	retryConfig        RetryConfig
	slowQueryThreshold time.Duration
	metrics            *shared.DatabaseMetrics
}

// NewQueryExecutor creates an executor from the service and database configuration
func NewQueryExecutor(config *shared.UnifiedConfiguration) *QueryExecutor {
	return &QueryExecutor{
		retryConfig: RetryConfig{
			MaxRetries:    config.Service.MaxRetryAttempts,
			BaseDelay:     100 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			BackoffFactor: 2.0,
		},
		slowQueryThreshold: config.Database.SlowQueryThreshold,
		metrics:            shared.NewDatabaseMetrics(),
	}
}

// Metrics exposes the query counters
func (e *QueryExecutor) Metrics() *shared.DatabaseMetrics {
	return e.metrics
}

// ExecuteWithRetry executes a database operation with exponential backoff retry.
// Only errors classified by shared.IsRetryableError are retried.
func (e *QueryExecutor) ExecuteWithRetry(ctx context.Context, operationName string, operation func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= e.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}

			delay := time.Duration(float64(e.retryConfig.BaseDelay) *
				math.Pow(e.retryConfig.BackoffFactor, float64(attempt-1)))
			if delay > e.retryConfig.MaxDelay {
				delay = e.retryConfig.MaxDelay
			}

			e.metrics.RecordRetryAttempt()
			logrus.WithFields(logrus.Fields{
				"operation": operationName,
				"attempt":   attempt,
				"delay":     delay,
				"error":     lastErr,
			}).Warn("Retrying database operation")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		startTime := time.Now()
		err := operation(ctx)
		duration := time.Since(startTime)

		slow := e.slowQueryThreshold > 0 && duration > e.slowQueryThreshold
		e.metrics.RecordQuery(err == nil, duration, slow)
		if slow {
			logrus.WithFields(logrus.Fields{
				"operation": operationName,
				"duration":  duration,
				"attempt":   attempt,
			}).Warn("Slow database query detected")
		}

		if err == nil {
			if attempt > 0 {
				logrus.WithFields(logrus.Fields{
					"operation": operationName,
					"attempt":   attempt,
					"duration":  duration,
				}).Info("Database operation succeeded after retry")
			}
			return nil
		}

		lastErr = err
		if !shared.IsRetryableError(err) {
			logrus.WithFields(logrus.Fields{
				"operation": operationName,
				"error":     err,
			}).Debug("Non-retryable database error")
			return err
		}
	}

	return fmt.Errorf("database operation failed after %d retries: %w", e.retryConfig.MaxRetries, lastErr)
}
