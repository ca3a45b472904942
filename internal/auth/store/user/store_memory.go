package user

import (
	"context"
	"fmt"
	"sync"

	"stash/internal/auth/models"
	"stash/pkg/platform/sentinel"
)

// InMemoryStore stores users in memory for tests/dev.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// New constructs an empty in-memory user store.
func New() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]*models.User)}
}

// Save inserts or replaces a user row. Test seeding only.
func (s *InMemoryStore) Save(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

// Delete removes a user row, used by tests that exercise stale cache entries.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
}
