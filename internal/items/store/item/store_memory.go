package item

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stash/internal/items/models"
	"stash/pkg/platform/sentinel"
)

// InMemoryStore stores items in memory for tests/dev. Semantics mirror the
// Postgres store, including owner scoping on every operation.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[string]*models.Item
}

// New constructs an empty in-memory item store.
func New() *InMemoryStore {
	return &InMemoryStore{items: make(map[string]*models.Item)}
}

func (s *InMemoryStore) Create(_ context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[it.ID]; exists {
		return fmt.Errorf("item %s: %w", it.ID, sentinel.ErrConflict)
	}
	copied := *it
	s.items[it.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id, ownerID string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok || it.OwnerID != ownerID {
		return nil, fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *it
	return &copied, nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID string, skip, limit int) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []*models.Item
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			copied := *it
			owned = append(owned, &copied)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.Before(owned[j].CreatedAt)
	})

	if skip >= len(owned) {
		return []*models.Item{}, nil
	}
	owned = owned[skip:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (s *InMemoryStore) Update(_ context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[it.ID]
	if !ok || existing.OwnerID != it.OwnerID {
		return fmt.Errorf("item %s: %w", it.ID, sentinel.ErrNotFound)
	}
	copied := *it
	s.items[it.ID] = &copied
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[id]
	if !ok || existing.OwnerID != ownerID {
		return fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}
