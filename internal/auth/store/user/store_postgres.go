package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stash/internal/auth/models"
	"stash/pkg/platform/sentinel"
)

// PostgresStore reads user rows from the auth provider's schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, email_verified, image, role, banned, ban_reason, ban_expires, stripe_customer_id, created_at, updated_at
		FROM "user"
		WHERE id = $1
	`
	var (
		u                models.User
		image            sql.NullString
		role             sql.NullString
		banned           sql.NullBool
		banReason        sql.NullString
		banExpires       sql.NullTime
		stripeCustomerID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified,
		&image, &role, &banned, &banReason, &banExpires, &stripeCustomerID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	if image.Valid {
		u.Image = &image.String
	}
	if role.Valid {
		u.Role = &role.String
	}
	u.Banned = banned.Valid && banned.Bool
	if banReason.Valid {
		u.BanReason = &banReason.String
	}
	if banExpires.Valid {
		u.BanExpires = &banExpires.Time
	}
	if stripeCustomerID.Valid {
		u.StripeCustomerID = &stripeCustomerID.String
	}
	return &u, nil
}
