package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrCacheMiss is returned by MemoryCache.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

type memoryEntry struct {
	value        []byte
	expiresAt    time.Time
	lastAccessed time.Time
}

// MemoryCache is the bounded in-process fallback tier. Every mutation runs
// under the mutex; eviction on a full insert is two-phase: expired entries
// are purged first, then the least-recently-accessed entry goes.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	maxSize int
	now     func() time.Time
}

func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &MemoryCache{
		entries: make(map[string]*memoryEntry),
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	now := m.now()
	if now.After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}

	entry.lastAccessed = now
	return entry.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxSize {
		m.evictLocked(now)
	}

	m.entries[key] = &memoryEntry{
		value:        value,
		expiresAt:    now.Add(ttl),
		lastAccessed: now,
	}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

// Len reports the current entry count.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evictLocked frees at least one slot: purge everything already expired,
// and only if nothing expired drop the least-recently-accessed entry.
// Caller holds the mutex.
func (m *MemoryCache) evictLocked(now time.Time) {
	purged := false
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			purged = true
		}
	}
	if purged {
		return
	}

	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.lastAccessed.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccessed
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
