package postgres

import (
	"context"
	"database/sql"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
)

// StorePostgres is a PostgreSQL implementation of
// repository.StoreRepository.
type StorePostgres struct {
	db *sql.DB
}

// NewStorePostgres creates a new StorePostgres repository.
func NewStorePostgres(db *sql.DB) *StorePostgres {
	return &StorePostgres{db: db}
}

var _ repository.StoreRepository = (*StorePostgres)(nil)

const storeColumns = `id, user_id, name, platform, api_key, api_secret, is_active, created_at, updated_at`

func scanStore(row interface{ Scan(...any) error }) (*model.Store, error) {
	var s model.Store
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Platform,
		&s.APIKey,
		&s.APISecret,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new store row and returns the stored record.
func (r *StorePostgres) Create(ctx context.Context, s *model.Store) (*model.Store, error) {
	const q = `
		INSERT INTO stores (id, user_id, name, platform, api_key, api_secret, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + storeColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.UserID,
		s.Name,
		s.Platform,
		s.APIKey,
		s.APISecret,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return scanStore(row)
}

// FindByID fetches a store owned by the user.
func (r *StorePostgres) FindByID(ctx context.Context, id, userID string) (*model.Store, error) {
	const q = `SELECT ` + storeColumns + ` FROM stores WHERE id = $1 AND user_id = $2`
	return scanStore(r.db.QueryRowContext(ctx, q, id, userID))
}

// ListByUser returns the user's stores newest first with product counts.
func (r *StorePostgres) ListByUser(ctx context.Context, userID string) ([]model.Store, error) {
	const q = `
		SELECT s.id, s.user_id, s.name, s.platform, s.api_key, s.api_secret, s.is_active,
		       s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM products p WHERE p.store_id = s.id) AS product_count
		FROM stores s
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Store, 0)
	for rows.Next() {
		var s model.Store
		var count int
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Platform,
			&s.APIKey,
			&s.APISecret,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
			&count,
		); err != nil {
			return nil, err
		}
		s.Count = &model.StoreCounts{Products: count}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists mutable store fields and returns the stored record.
func (r *StorePostgres) Update(ctx context.Context, s *model.Store) (*model.Store, error) {
	const q = `
		UPDATE stores
		SET name = $3, platform = $4, api_key = $5, api_secret = $6, is_active = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storeColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.UserID,
		s.Name,
		s.Platform,
		s.APIKey,
		s.APISecret,
		s.IsActive,
		s.UpdatedAt,
	)
	return scanStore(row)
}

// Delete removes a store owned by the user. Missing rows are not an error.
func (r *StorePostgres) Delete(ctx context.Context, id, userID string) error {
	const q = `DELETE FROM stores WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, id, userID)
	return err
}
