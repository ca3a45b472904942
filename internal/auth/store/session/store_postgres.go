package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stash/internal/auth/models"
	"stash/pkg/platform/sentinel"
)

// PostgresStore reads session rows from the auth provider's schema. The table
// is owned by the external auth provider; this store never writes to it.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed session store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByToken returns the session for the given token if it expires after
// now. Expired and unknown tokens are indistinguishable: both return
// ErrNotFound, so callers cannot leak which applied.
func (s *PostgresStore) FindByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	query := `
		SELECT id, token, user_id, expires_at, ip_address, user_agent, impersonated_by, created_at, updated_at
		FROM "session"
		WHERE token = $1 AND expires_at > $2
	`
	var (
		sess           models.Session
		ipAddress      sql.NullString
		userAgent      sql.NullString
		impersonatedBy sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, token, now).Scan(
		&sess.ID, &sess.Token, &sess.UserID, &sess.ExpiresAt,
		&ipAddress, &userAgent, &impersonatedBy,
		&sess.CreatedAt, &sess.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session for token: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session by token: %w", err)
	}
	if ipAddress.Valid {
		sess.IPAddress = &ipAddress.String
	}
	if userAgent.Valid {
		sess.UserAgent = &userAgent.String
	}
	if impersonatedBy.Valid {
		sess.ImpersonatedBy = &impersonatedBy.String
	}
	return &sess, nil
}
