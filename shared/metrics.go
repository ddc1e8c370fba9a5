package shared

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const maxLatencySamples = 1000

// ServiceMetrics tracks request counts and latencies per service operation
type ServiceMetrics struct {
	serviceName string
	operations  map[string]*operationStats
	mutex       sync.RWMutex
}

type operationStats struct {
	total     int64
	failed    int64
	totalTime time.Duration
	samples   []time.Duration
}

// OperationSnapshot is a point-in-time copy of one operation's counters
type OperationSnapshot struct {
	TotalRequests  int64         `json:"total_requests"`
	FailedRequests int64         `json:"failed_requests"`
	SuccessRate    float64       `json:"success_rate"`
	AverageLatency time.Duration `json:"average_latency"`
	P95Latency     time.Duration `json:"p95_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
}

// ServiceSnapshot is a point-in-time copy of all operations of a service
type ServiceSnapshot struct {
	ServiceName string                       `json:"service_name"`
	Operations  map[string]OperationSnapshot `json:"operations"`
	TakenAt     time.Time                    `json:"taken_at"`
}

// NewServiceMetrics creates a new metrics tracker for a service
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		serviceName: serviceName,
		operations:  make(map[string]*operationStats),
	}
}

// RecordRequest records an operation call with its outcome and duration
func (m *ServiceMetrics) RecordRequest(operation string, success bool, processingTime time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stats, ok := m.operations[operation]
	if !ok {
		stats = &operationStats{samples: make([]time.Duration, 0, 64)}
		m.operations[operation] = stats
	}

	stats.total++
	stats.totalTime += processingTime
	if !success {
		stats.failed++
	}

	if len(stats.samples) >= maxLatencySamples {
		stats.samples = stats.samples[1:]
	}
	stats.samples = append(stats.samples, processingTime)
}

// GetSnapshot returns a thread-safe snapshot of current metrics
func (m *ServiceMetrics) GetSnapshot() ServiceSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snapshot := ServiceSnapshot{
		ServiceName: m.serviceName,
		Operations:  make(map[string]OperationSnapshot, len(m.operations)),
		TakenAt:     time.Now(),
	}

	for name, stats := range m.operations {
		op := OperationSnapshot{
			TotalRequests:  stats.total,
			FailedRequests: stats.failed,
		}
		if stats.total > 0 {
			op.SuccessRate = float64(stats.total-stats.failed) / float64(stats.total) * 100.0
			op.AverageLatency = time.Duration(int64(stats.totalTime) / stats.total)
		}

		sorted := make([]time.Duration, len(stats.samples))
		copy(sorted, stats.samples)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		if len(sorted) > 0 {
			p95Index := int(float64(len(sorted)) * 0.95)
			if p95Index >= len(sorted) {
				p95Index = len(sorted) - 1
			}
			op.P95Latency = sorted[p95Index]
			op.MaxLatency = sorted[len(sorted)-1]
		}

		snapshot.Operations[name] = op
	}

	return snapshot
}

// LogSummary logs a metrics summary per operation
func (m *ServiceMetrics) LogSummary() {
	snapshot := m.GetSnapshot()
	for name, op := range snapshot.Operations {
		logrus.WithFields(logrus.Fields{
			"service_name":    snapshot.ServiceName,
			"operation":       name,
			"total_requests":  op.TotalRequests,
			"failed_requests": op.FailedRequests,
			"success_rate":    op.SuccessRate,
			"average_latency": op.AverageLatency,
			"p95_latency":     op.P95Latency,
		}).Info("Service metrics summary")
	}
}

// Reset resets all metrics to zero
func (m *ServiceMetrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.operations = make(map[string]*operationStats)
	logrus.WithField("service_name", m.serviceName).Info("Service metrics reset")
}

// DatabaseMetrics tracks database query performance and success rates
type DatabaseMetrics struct {
	totalQueries      int64
	successfulQueries int64
	failedQueries     int64
	slowQueries       int64
	retryAttempts     int64
	totalQueryTime    time.Duration
	mutex             sync.RWMutex
}

// DatabaseSnapshot is a point-in-time copy of DatabaseMetrics
type DatabaseSnapshot struct {
	TotalQueries      int64         `json:"total_queries"`
	SuccessfulQueries int64         `json:"successful_queries"`
	FailedQueries     int64         `json:"failed_queries"`
	SlowQueries       int64         `json:"slow_queries"`
	RetryAttempts     int64         `json:"retry_attempts"`
	AverageQueryTime  time.Duration `json:"average_query_time"`
	SuccessRate       float64       `json:"success_rate"`
}

// NewDatabaseMetrics creates a new database metrics tracker
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// RecordQuery records a database query with its success status and execution time
func (dm *DatabaseMetrics) RecordQuery(success bool, queryTime time.Duration, isSlowQuery bool) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	dm.totalQueries++
	dm.totalQueryTime += queryTime

	if success {
		dm.successfulQueries++
	} else {
		dm.failedQueries++
	}

	if isSlowQuery {
		dm.slowQueries++
	}
}

// RecordRetryAttempt records a retried query
func (dm *DatabaseMetrics) RecordRetryAttempt() {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	dm.retryAttempts++
}

// GetSnapshot returns a copy of the counters
func (dm *DatabaseMetrics) GetSnapshot() DatabaseSnapshot {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	snapshot := DatabaseSnapshot{
		TotalQueries:      dm.totalQueries,
		SuccessfulQueries: dm.successfulQueries,
		FailedQueries:     dm.failedQueries,
		SlowQueries:       dm.slowQueries,
		RetryAttempts:     dm.retryAttempts,
	}
	if dm.totalQueries > 0 {
		snapshot.AverageQueryTime = time.Duration(int64(dm.totalQueryTime) / dm.totalQueries)
		snapshot.SuccessRate = float64(dm.successfulQueries) / float64(dm.totalQueries) * 100.0
	}
	return snapshot
}

// LogDatabaseSummary logs database metrics
func (dm *DatabaseMetrics) LogDatabaseSummary() {
	snapshot := dm.GetSnapshot()

	logrus.WithFields(logrus.Fields{
		"total_queries":      snapshot.TotalQueries,
		"successful_queries": snapshot.SuccessfulQueries,
		"failed_queries":     snapshot.FailedQueries,
		"slow_queries":       snapshot.SlowQueries,
		"retry_attempts":     snapshot.RetryAttempts,
		"query_success_rate": snapshot.SuccessRate,
		"average_query_time": snapshot.AverageQueryTime,
	}).Info("Database metrics summary")
}

// CacheMetrics counts cache hits, misses and backend errors
type CacheMetrics struct {
	hits   int64
	misses int64
	errors int64
	mutex  sync.RWMutex
}

// CacheSnapshot is a point-in-time copy of CacheMetrics
type CacheSnapshot struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Errors  int64   `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// NewCacheMetrics creates a new cache metrics tracker
func NewCacheMetrics() *CacheMetrics {
	return &CacheMetrics{}
}

// RecordHit records a cache hit
func (cm *CacheMetrics) RecordHit() {
	cm.mutex.Lock()
	cm.hits++
	cm.mutex.Unlock()
}

// RecordMiss records a cache miss
func (cm *CacheMetrics) RecordMiss() {
	cm.mutex.Lock()
	cm.misses++
	cm.mutex.Unlock()
}

// RecordError records a cache backend failure
func (cm *CacheMetrics) RecordError() {
	cm.mutex.Lock()
	cm.errors++
	cm.mutex.Unlock()
}

// GetSnapshot returns a copy of the counters
func (cm *CacheMetrics) GetSnapshot() CacheSnapshot {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	snapshot := CacheSnapshot{Hits: cm.hits, Misses: cm.misses, Errors: cm.errors}
	if lookups := cm.hits + cm.misses; lookups > 0 {
		snapshot.HitRate = float64(cm.hits) / float64(lookups) * 100.0
	}
	return snapshot
}
