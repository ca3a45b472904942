package handler

import (
	"time"

	"stash/internal/items/models"
	"stash/pkg/platform/httputil"
)

const (
	maxNameLen  = 255
	maxListSize = 1000
)

// CreateItemRequest is the POST /items payload.
type CreateItemRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Validate returns field-level errors for the create payload.
func (r CreateItemRequest) Validate() []httputil.FieldError {
	var fields []httputil.FieldError
	if r.Name == "" {
		fields = append(fields, httputil.FieldError{Field: "name", Message: "name is required"})
	}
	if len(r.Name) > maxNameLen {
		fields = append(fields, httputil.FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}
	return fields
}

// UpdateItemRequest is the PATCH /items/{itemID} payload. Absent fields leave
// the stored value untouched.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Validate returns field-level errors for the update payload.
func (r UpdateItemRequest) Validate() []httputil.FieldError {
	var fields []httputil.FieldError
	if r.Name != nil && *r.Name == "" {
		fields = append(fields, httputil.FieldError{Field: "name", Message: "name must not be empty"})
	}
	if r.Name != nil && len(*r.Name) > maxNameLen {
		fields = append(fields, httputil.FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}
	return fields
}

// Update converts the request into the service's partial-update shape.
func (r UpdateItemRequest) Update() models.ItemUpdate {
	return models.ItemUpdate{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

// ItemResponse is the wire shape of an item.
type ItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     string    `json:"owner_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromItem converts a domain item to its response shape.
func FromItem(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		OwnerID:     it.OwnerID,
		IsActive:    it.IsActive,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// FromItems converts a list, always returning a non-nil slice so the JSON
// encoding is [] rather than null.
func FromItems(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromItem(it))
	}
	return out
}
