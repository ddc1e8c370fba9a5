package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Cache stores JSON-encoded values with a TTL. GetJSON reports whether the
// key was found; a miss is not an error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	Size(ctx context.Context) (int, error)
	// Cleanup drops expired entries and returns how many were removed
	Cleanup(ctx context.Context) int
	Backend() string
}

// CacheEntry represents a cached item with expiration
type CacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

// IsExpired checks if the cache entry has expired
func (ce *CacheEntry) IsExpired() bool {
	return time.Now().After(ce.ExpiresAt)
}

// MemoryCache is an in-process TTL map. When full, the entry closest to
// expiry is evicted. Expired entries are removed by Cleanup.
type MemoryCache struct {
	cache   map[string]*CacheEntry
	mutex   sync.RWMutex
	maxSize int
}

// NewMemoryCache creates a cache holding at most maxSize entries
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryCache{
		cache:   make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

func (mc *MemoryCache) Backend() string {
	return "memory"
}

// GetJSON decodes a live entry into dest
func (mc *MemoryCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	mc.mutex.RLock()
	entry, exists := mc.cache[key]
	mc.mutex.RUnlock()

	if !exists || entry.IsExpired() {
		return false, nil
	}
	if err := json.Unmarshal(entry.Data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value encoded as JSON
func (mc *MemoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if _, exists := mc.cache[key]; !exists && len(mc.cache) >= mc.maxSize {
		mc.evictOldest()
	}

	mc.cache[key] = &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}
	return nil
}

// evictOldest removes the entry with the earliest expiry
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range mc.cache {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(mc.cache, oldestKey)
	}
}

func (mc *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.cache, key)
	}
	return nil
}

func (mc *MemoryCache) Clear(ctx context.Context) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.cache = make(map[string]*CacheEntry)
	return nil
}

// Size counts stored entries, expired ones included until Cleanup runs
func (mc *MemoryCache) Size(ctx context.Context) (int, error) {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	return len(mc.cache), nil
}

func (mc *MemoryCache) Cleanup(ctx context.Context) int {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	removed := 0
	for key, entry := range mc.cache {
		if entry.IsExpired() {
			delete(mc.cache, key)
			removed++
		}
	}
	return removed
}
