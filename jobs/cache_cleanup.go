package jobs

import (
	"context"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/services"
	"github.com/sirupsen/logrus"
)

// CacheCleanupJob drops expired cache entries
type CacheCleanupJob struct {
	Cache services.Cache
}

func NewCacheCleanupJob(cache services.Cache) *CacheCleanupJob {
	return &CacheCleanupJob{Cache: cache}
}

func (j *CacheCleanupJob) Run() {
	logrus.Debug("Starting Cache Cleanup Job")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed := j.Cache.Cleanup(ctx)
	size, err := j.Cache.Size(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Cache Cleanup Job could not read cache size")
	}

	logrus.WithFields(logrus.Fields{
		"backend": j.Cache.Backend(),
		"removed": removed,
		"size":    size,
	}).Info("Cache Cleanup Job completed")
}
