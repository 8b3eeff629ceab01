package postgres

import (
	"context"
	"database/sql"
	"time"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of
// repository.ProductRepository. Ownership checks join through the stores
// table.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

const productColumns = `id, store_id, name, sku, category, cost_price, current_price, competitor_price, sales_velocity, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(
		&p.ID,
		&p.StoreID,
		&p.Name,
		&p.SKU,
		&p.Category,
		&p.CostPrice,
		&p.CurrentPrice,
		&p.CompetitorPrice,
		&p.SalesVelocity,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// joined product plus its store and the most recent scan time.
const productWithStoreQuery = `
	SELECT p.id, p.store_id, p.name, p.sku, p.category, p.cost_price, p.current_price,
	       p.competitor_price, p.sales_velocity, p.created_at, p.updated_at,
	       s.id, s.user_id, s.name, s.platform, s.api_key, s.api_secret, s.is_active,
	       s.created_at, s.updated_at,
	       (SELECT MAX(md.scraped_at) FROM market_data md WHERE md.product_id = p.id) AS last_scanned_at
	FROM products p
	JOIN stores s ON s.id = p.store_id
`

func scanProductWithStore(row interface{ Scan(...any) error }) (*model.Product, error) {
	var (
		p    model.Product
		s    model.Store
		last *time.Time
	)
	if err := row.Scan(
		&p.ID,
		&p.StoreID,
		&p.Name,
		&p.SKU,
		&p.Category,
		&p.CostPrice,
		&p.CurrentPrice,
		&p.CompetitorPrice,
		&p.SalesVelocity,
		&p.CreatedAt,
		&p.UpdatedAt,
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Platform,
		&s.APIKey,
		&s.APISecret,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
		&last,
	); err != nil {
		return nil, err
	}
	p.Store = &s
	p.LastScannedAt = last
	return &p, nil
}

// Create inserts a new product row and returns the stored record.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products (id, store_id, name, sku, category, cost_price, current_price, competitor_price, sales_velocity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.StoreID,
		p.Name,
		p.SKU,
		p.Category,
		p.CostPrice,
		p.CurrentPrice,
		p.CompetitorPrice,
		p.SalesVelocity,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanProduct(row)
}

// FindByID fetches a product owned by the user, with its store attached.
func (r *ProductPostgres) FindByID(ctx context.Context, id, userID string) (*model.Product, error) {
	const q = productWithStoreQuery + `WHERE p.id = $1 AND s.user_id = $2`
	return scanProductWithStore(r.db.QueryRowContext(ctx, q, id, userID))
}

// ListByUser returns the user's products newest first. An empty storeID
// matches all stores.
func (r *ProductPostgres) ListByUser(ctx context.Context, userID, storeID string) ([]model.Product, error) {
	const q = productWithStoreQuery + `
		WHERE s.user_id = $1 AND ($2 = '' OR p.store_id = $2)
		ORDER BY p.created_at DESC, p.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProductWithStore(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists mutable product fields and returns the stored record.
func (r *ProductPostgres) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		UPDATE products
		SET name = $2, sku = $3, category = $4, cost_price = $5, current_price = $6,
		    competitor_price = $7, sales_velocity = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.SKU,
		p.Category,
		p.CostPrice,
		p.CurrentPrice,
		p.CompetitorPrice,
		p.SalesVelocity,
		p.UpdatedAt,
	)
	return scanProduct(row)
}

// SetCompetitorPrice records the rolling average competitor price.
func (r *ProductPostgres) SetCompetitorPrice(ctx context.Context, id string, price float64) error {
	const q = `UPDATE products SET competitor_price = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, price)
	return err
}

// SetCurrentPrice applies a new selling price to the product.
func (r *ProductPostgres) SetCurrentPrice(ctx context.Context, id string, price float64) error {
	const q = `UPDATE products SET current_price = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, price)
	return err
}

// Delete removes a product by ID. Missing rows are not an error.
func (r *ProductPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
