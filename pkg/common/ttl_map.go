package common

import (
	"sync"
	"time"
)

// TTLMap is a mutex-guarded map whose entries expire individually. Expired
// entries are dropped lazily, by the read that finds them.
type TTLMap struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
	ttl     time.Duration
}

type ttlEntry struct {
	value     interface{}
	expiresAt time.Time
}

func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		entries: make(map[string]ttlEntry),
		ttl:     ttl,
	}
}

// Get returns the live value for a key. An expired entry reads as absent and
// is deleted on the spot.
func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	entry, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && time.Now().After(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores a value and restarts its expiry window.
func (m *TTLMap) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = ttlEntry{value: value, expiresAt: time.Now().Add(m.ttl)}
}

// Increment adds delta to a key's counter under one lock and restarts the
// window. A missing, expired, or non-counter entry restarts from zero.
func (m *TTLMap) Increment(key string, delta int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	if entry, ok := m.entries[key]; ok && time.Now().Before(entry.expiresAt) {
		if current, ok := entry.value.(int64); ok {
			count = current
		}
	}
	count += delta

	m.entries[key] = ttlEntry{value: count, expiresAt: time.Now().Add(m.ttl)}
	return count
}

// Range calls fn for every live entry. fn must not call back into the map.
func (m *TTLMap) Range(fn func(key string, value interface{})) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			continue
		}
		fn(key, entry.value)
	}
}

// Clear drops every entry.
func (m *TTLMap) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]ttlEntry)
}
