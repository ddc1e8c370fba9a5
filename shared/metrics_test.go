package shared

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceMetricsSnapshot(t *testing.T) {
	metrics := NewServiceMetrics("PredictorService")
	for i := 1; i <= 100; i++ {
		metrics.RecordRequest("Predict", i%10 != 0, time.Duration(i)*time.Millisecond)
	}

	snapshot := metrics.GetSnapshot()
	assert.Equal(t, "PredictorService", snapshot.ServiceName)
	require.Contains(t, snapshot.Operations, "Predict")

	op := snapshot.Operations["Predict"]
	assert.Equal(t, int64(100), op.TotalRequests)
	assert.Equal(t, int64(10), op.FailedRequests)
	assert.InDelta(t, 90.0, op.SuccessRate, 0.001)
	assert.Equal(t, 50500*time.Microsecond, op.AverageLatency)
	assert.Equal(t, 96*time.Millisecond, op.P95Latency)
	assert.Equal(t, 100*time.Millisecond, op.MaxLatency)
}

func TestServiceMetricsKeepsBoundedSamples(t *testing.T) {
	metrics := NewServiceMetrics("CatalogService")
	for i := 0; i < maxLatencySamples+50; i++ {
		metrics.RecordRequest("ListStates", true, time.Millisecond)
	}

	metrics.mutex.RLock()
	samples := len(metrics.operations["ListStates"].samples)
	metrics.mutex.RUnlock()
	assert.Equal(t, maxLatencySamples, samples)
	assert.Equal(t, int64(maxLatencySamples+50), metrics.GetSnapshot().Operations["ListStates"].TotalRequests)
}

func TestServiceMetricsReset(t *testing.T) {
	metrics := NewServiceMetrics("CatalogService")
	metrics.RecordRequest("ListStates", true, time.Millisecond)
	metrics.Reset()
	assert.Empty(t, metrics.GetSnapshot().Operations)
}

func TestServiceMetricsConcurrentRecording(t *testing.T) {
	metrics := NewServiceMetrics("CatalogService")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				metrics.RecordRequest("ListColleges", true, time.Microsecond)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), metrics.GetSnapshot().Operations["ListColleges"].TotalRequests)
}

func TestDatabaseMetrics(t *testing.T) {
	metrics := NewDatabaseMetrics()
	assert.Equal(t, DatabaseSnapshot{}, metrics.GetSnapshot())

	metrics.RecordQuery(true, 10*time.Millisecond, false)
	metrics.RecordQuery(false, 30*time.Millisecond, true)
	metrics.RecordRetryAttempt()

	snapshot := metrics.GetSnapshot()
	assert.Equal(t, int64(2), snapshot.TotalQueries)
	assert.Equal(t, int64(1), snapshot.SuccessfulQueries)
	assert.Equal(t, int64(1), snapshot.FailedQueries)
	assert.Equal(t, int64(1), snapshot.SlowQueries)
	assert.Equal(t, int64(1), snapshot.RetryAttempts)
	assert.Equal(t, 20*time.Millisecond, snapshot.AverageQueryTime)
	assert.InDelta(t, 50.0, snapshot.SuccessRate, 0.001)
}

func TestCacheMetrics(t *testing.T) {
	metrics := NewCacheMetrics()
	assert.Zero(t, metrics.GetSnapshot().HitRate)

	metrics.RecordHit()
	metrics.RecordHit()
	metrics.RecordHit()
	metrics.RecordMiss()
	metrics.RecordError()

	snapshot := metrics.GetSnapshot()
	assert.Equal(t, int64(3), snapshot.Hits)
	assert.Equal(t, int64(1), snapshot.Misses)
	assert.Equal(t, int64(1), snapshot.Errors)
	assert.InDelta(t, 75.0, snapshot.HitRate, 0.001)
}
