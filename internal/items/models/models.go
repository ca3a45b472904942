// Package models holds the item records owned by authenticated users.
package models

import "time"

// Item is a user-owned record. Ownership scoping happens in the store
// queries; handlers never see another user's items.
type Item struct {
	ID          string
	Name        string
	Description *string
	OwnerID     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemUpdate carries a partial update. Nil fields are left untouched.
type ItemUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}
