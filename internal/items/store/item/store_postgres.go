package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stash/internal/items/models"
	"stash/pkg/platform/sentinel"
)

// PostgresStore persists items in PostgreSQL. Every query is scoped to the
// owner so one user can never read or mutate another user's rows.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed item store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const itemColumns = `id, name, description, owner_id, is_active, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var (
		it          models.Item
		description sql.NullString
	)
	err := row.Scan(&it.ID, &it.Name, &description, &it.OwnerID, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		it.Description = &description.String
	}
	return &it, nil
}

func (s *PostgresStore) Create(ctx context.Context, it *models.Item) error {
	query := `
		INSERT INTO items (id, name, description, owner_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		it.ID, it.Name, nullString(it.Description), it.OwnerID, it.IsActive, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id, ownerID string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND owner_id = $2`
	it, err := scanItem(s.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return it, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE owner_id = $1
		ORDER BY created_at
		OFFSET $2 LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) Update(ctx context.Context, it *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5 AND owner_id = $6
	`
	res, err := s.db.ExecContext(ctx, query,
		it.Name, nullString(it.Description), it.IsActive, it.UpdatedAt, it.ID, it.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", it.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
