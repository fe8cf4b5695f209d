// Package cache provides caching implementations for Blueprint current-version
// resolution.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/blueprint"
	"github.com/xraph/blueprint/id"
)

// Compile-time interface check.
var _ blueprint.VersionCache = (*Memory)(nil)

// Memory is an in-memory cache with TTL-based expiration. Entries map an
// entity ID to its current-version ID.
type Memory struct {
	mu      sync.RWMutex
	entries map[id.EntityID]*entry
	ttl     time.Duration
	maxSize int
}

type entry struct {
	versionID id.VersionID
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[id.EntityID]*entry),
		ttl:     5 * time.Minute,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached current-version ID for an entity.
func (m *Memory) Get(_ context.Context, entityID id.EntityID) (id.VersionID, bool) {
	m.mu.RLock()
	e, ok := m.entries[entityID]
	m.mu.RUnlock()
	if !ok {
		return id.Nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, entityID)
		m.mu.Unlock()
		return id.Nil, false
	}
	return e.versionID, true
}

// Set stores the current-version ID for an entity.
func (m *Memory) Set(_ context.Context, entityID id.EntityID, versionID id.VersionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			m.evictOne()
		}
	}

	m.entries[entityID] = &entry{
		versionID: versionID,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// Invalidate removes the cached entry for an entity.
func (m *Memory) Invalidate(_ context.Context, entityID id.EntityID) {
	m.mu.Lock()
	delete(m.entries, entityID)
	m.mu.Unlock()
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
