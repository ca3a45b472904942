package subscription

import (
	"context"
	"sort"
	"sync"
	"time"

	"stash/internal/billing/models"
)

// InMemoryStore stores subscriptions in memory for tests/dev.
type InMemoryStore struct {
	mu   sync.RWMutex
	subs map[string]*models.Subscription
}

// New constructs an empty in-memory subscription store.
func New() *InMemoryStore {
	return &InMemoryStore{subs: make(map[string]*models.Subscription)}
}

// Save inserts or replaces a subscription row. Test seeding only.
func (s *InMemoryStore) Save(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
	return nil
}

// FindActiveByReference mirrors the Postgres store, including its
// created_at DESC ordering.
func (s *InMemoryStore) FindActiveByReference(_ context.Context, referenceID string, now time.Time) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*models.Subscription
	for _, sub := range s.subs {
		if sub.ReferenceID != referenceID {
			continue
		}
		if !sub.Active(now) {
			continue
		}
		matches = append(matches, sub)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}
