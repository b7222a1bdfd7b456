package cache

import (
	"sync"
	"time"
)

// TTLEntry represents an entry in TTLMap
type TTLEntry struct {
	Value     interface{}
	ExpiresAt time.Time
}

// TTLMap is a thread-safe map with TTL for each entry
type TTLMap struct {
	Data map[string]*TTLEntry
	Mu   sync.RWMutex
	TTL  time.Duration
	now  func() time.Time
}

// NewTTLMap creates a new TTLMap with the specified default TTL
func NewTTLMap(ttl time.Duration) *TTLMap {
	return NewTTLMapWithClock(ttl, time.Now)
}

func NewTTLMapWithClock(ttl time.Duration, now func() time.Time) *TTLMap {
	if now == nil {
		now = time.Now
	}
	return &TTLMap{
		Data: make(map[string]*TTLEntry),
		TTL:  ttl,
		now:  now,
	}
}

// Get retrieves a value from the TTLMap if it hasn't expired
func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.Mu.RLock()
	entry, exists := m.Data[key]
	if !exists {
		m.Mu.RUnlock()
		return nil, false
	}
	isExpired := m.expired(entry)
	value := entry.Value
	m.Mu.RUnlock()

	if isExpired {
		m.Mu.Lock()
		if current, ok := m.Data[key]; ok && m.expired(current) {
			delete(m.Data, key)
		}
		m.Mu.Unlock()
		return nil, false
	}

	return value, true
}

// Set adds or updates a value using the map's default TTL
func (m *TTLMap) Set(key string, value interface{}) {
	m.SetWithTTL(key, value, m.TTL)
}

// SetWithTTL adds or updates a value that expires after ttl. A non-positive
// ttl keeps the entry until it is deleted.
func (m *TTLMap) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	entry := &TTLEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = m.now().Add(ttl)
	}
	m.Data[key] = entry
}

// Delete removes a key from the TTLMap
func (m *TTLMap) Delete(key string) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	delete(m.Data, key)
}

// Clear removes all entries from the TTLMap
func (m *TTLMap) Clear() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Data = make(map[string]*TTLEntry)
}

// Sweep drops every expired entry and returns how many were removed.
func (m *TTLMap) Sweep() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	removed := 0
	for key, entry := range m.Data {
		if m.expired(entry) {
			delete(m.Data, key)
			removed++
		}
	}
	return removed
}

func (m *TTLMap) expired(entry *TTLEntry) bool {
	return !entry.ExpiresAt.IsZero() && !m.now().Before(entry.ExpiresAt)
}
