package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryListingCache is the in-process fallback used when Redis is down or
// not configured. Entries expire lazily on read.
type MemoryListingCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryListingCache() *MemoryListingCache {
	return &MemoryListingCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryListingCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

func (m *MemoryListingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryListingCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
