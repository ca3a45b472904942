package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stash/internal/auth/models"
	"stash/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this pattern:
// - Return ErrNotFound when the requested entity does not exist or is expired
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemoryStore stores sessions in memory for tests/dev. Token uniqueness is
// enforced by keying on the token value, matching the store's unique index.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// New constructs an empty in-memory session store.
func New() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*models.Session)}
}

// Save inserts or replaces the session row for its token. Test seeding only.
func (s *InMemoryStore) Save(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

// FindByToken mirrors the Postgres store: expired sessions are not found.
func (s *InMemoryStore) FindByToken(_ context.Context, token string, now time.Time) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok || !sess.Valid(now) {
		return nil, fmt.Errorf("session for token: %w", sentinel.ErrNotFound)
	}
	return sess, nil
}
