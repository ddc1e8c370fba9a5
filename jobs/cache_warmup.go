package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Warmer preloads frequently read data into a cache
type Warmer interface {
	WarmupCache(ctx context.Context) error
}

// CacheWarmupJob refreshes the catalog cache so list pages stay warm
type CacheWarmupJob struct {
	Warmer Warmer
}

func NewCacheWarmupJob(warmer Warmer) *CacheWarmupJob {
	return &CacheWarmupJob{Warmer: warmer}
}

func (j *CacheWarmupJob) Run() {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := j.Warmer.WarmupCache(ctx); err != nil {
		logrus.WithError(err).Error("Cache Warmup Job failed")
		return
	}

	logrus.WithField("duration", time.Since(startTime)).Info("Cache Warmup Job completed")
}
