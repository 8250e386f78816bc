package variants

import (
	"context"
	"sync"
	"time"
)

// cacheKey builds the session cache key for a slot
func cacheKey(contentKey, locale string) string {
	return contentKey + ":" + locale
}

// ========================================
// IN-PROCESS SESSION CACHE
// ========================================

// MemoryCache is one session's selections held in process memory
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*VariantSelection
}

// NewMemoryCache creates an empty session cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*VariantSelection)}
}

// Get returns the cached selection for key
func (m *MemoryCache) Get(_ context.Context, key string) (*VariantSelection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sel, ok := m.entries[key]
	return sel, ok
}

// Set stores a selection; the last write wins
func (m *MemoryCache) Set(_ context.Context, key string, selection *VariantSelection) {
	if selection == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = selection
}

// Clear drops every selection for the session
func (m *MemoryCache) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*VariantSelection)
}

// Len reports how many selections are cached
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

type memorySession struct {
	cache    *MemoryCache
	lastSeen time.Time
}

// MemoryStore owns the in-process caches of all sessions on this instance.
// Sessions idle for longer than ttl are dropped by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl of inactivity
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// ForSession returns the session's cache, creating it on first use
func (s *MemoryStore) ForSession(sessionID string) Cache {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &memorySession{cache: NewMemoryCache()}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = s.now()
	return sess.cache
}

// Sweep removes idle sessions and returns how many were dropped
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunJanitor sweeps idle sessions every interval until ctx is done
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				sessionsSweptTotal.Add(float64(n))
			}
		}
	}
}
