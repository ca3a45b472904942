package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"stash/internal/items/models"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/platform/sentinel"
	"stash/pkg/requestcontext"
)

// Store persists items. Implementations scope every operation to the owner.
type Store interface {
	Create(ctx context.Context, it *models.Item) error
	FindByID(ctx context.Context, id, ownerID string) (*models.Item, error)
	ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]*models.Item, error)
	Update(ctx context.Context, it *models.Item) error
	Delete(ctx context.Context, id, ownerID string) error
}

// Service implements item CRUD for authenticated owners.
type Service struct {
	store  Store
	logger *slog.Logger
}

// New constructs an item service.
func New(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// List returns the owner's items in creation order, paginated by skip/limit.
func (s *Service) List(ctx context.Context, ownerID string, skip, limit int) ([]*models.Item, error) {
	items, err := s.store.ListByOwner(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list items")
	}
	return items, nil
}

// Create stores a new item owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID, name string, description *string) (*models.Item, error) {
	now := requestcontext.Now(ctx)
	it := &models.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, it); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create item")
	}
	return it, nil
}

// Get fetches a single item owned by ownerID.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*models.Item, error) {
	it, err := s.store.FindByID(ctx, id, ownerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "item not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch item")
	}
	return it, nil
}

// Update applies a partial update to an item owned by ownerID. Nil fields in
// upd leave the stored value untouched; no partial write survives a failure.
func (s *Service) Update(ctx context.Context, id, ownerID string, upd models.ItemUpdate) (*models.Item, error) {
	it, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		it.Name = *upd.Name
	}
	if upd.Description != nil {
		it.Description = upd.Description
	}
	if upd.IsActive != nil {
		it.IsActive = *upd.IsActive
	}
	it.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, it); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update item")
	}
	return it, nil
}

// Delete removes an item owned by ownerID.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	err := s.store.Delete(ctx, id, ownerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "item not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete item")
	}
	return nil
}
