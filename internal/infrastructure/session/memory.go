package session

import (
	"context"
	"sync"
	"time"

	"github.com/shoplens/backend/internal/domain"
)

// storedSession holds one live chat handle with its expiration.
type storedSession struct {
	handle     domain.ChatSession
	expiration time.Time
}

// MemoryStore is a thread-safe in-memory registry of live chat sessions with
// TTL support. Sessions are process-local and deliberately not persisted.
type MemoryStore struct {
	sessions map[string]storedSession
	mutex    sync.RWMutex
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]storedSession),
	}

	// Drop expired sessions every minute so abandoned conversations don't
	// accumulate.
	go store.cleanupExpired(time.Minute)

	return store
}

// Put registers a session under the given ID with a TTL.
func (s *MemoryStore) Put(ctx context.Context, id string, session domain.ChatSession, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sessions[id] = storedSession{
		handle:     session,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Get returns the session for id, or ErrSessionNotFound when the ID is
// unknown or the session expired.
func (s *MemoryStore) Get(ctx context.Context, id string) (domain.ChatSession, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.sessions[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	if time.Now().After(item.expiration) {
		return nil, domain.ErrSessionNotFound
	}

	return item.handle, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.sessions, id)
	return nil
}

// Size returns the current number of stored sessions (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

// cleanupExpired removes expired sessions periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for id, item := range s.sessions {
			if now.After(item.expiration) {
				delete(s.sessions, id)
			}
		}
		s.mutex.Unlock()
	}
}
