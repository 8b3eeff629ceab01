package postgres

import (
	"context"
	"database/sql"
	"time"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
)

// MarketDataPostgres is a PostgreSQL implementation of
// repository.MarketDataRepository.
type MarketDataPostgres struct {
	db *sql.DB
}

// NewMarketDataPostgres creates a new MarketDataPostgres repository.
func NewMarketDataPostgres(db *sql.DB) *MarketDataPostgres {
	return &MarketDataPostgres{db: db}
}

var _ repository.MarketDataRepository = (*MarketDataPostgres)(nil)

const marketDataColumns = `id, product_id, source, price, url, snapshot_key, scraped_at`

func scanMarketData(row interface{ Scan(...any) error }) (*model.MarketData, error) {
	var md model.MarketData
	if err := row.Scan(
		&md.ID,
		&md.ProductID,
		&md.Source,
		&md.Price,
		&md.URL,
		&md.SnapshotKey,
		&md.ScrapedAt,
	); err != nil {
		return nil, err
	}
	return &md, nil
}

// Create inserts one observation and returns the stored record.
func (r *MarketDataPostgres) Create(ctx context.Context, md *model.MarketData) (*model.MarketData, error) {
	const q = `
		INSERT INTO market_data (id, product_id, source, price, url, snapshot_key, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + marketDataColumns
	row := r.db.QueryRowContext(ctx, q,
		md.ID,
		md.ProductID,
		md.Source,
		md.Price,
		md.URL,
		md.SnapshotKey,
		md.ScrapedAt,
	)
	return scanMarketData(row)
}

// ListByProduct returns all observations for the product, oldest first.
func (r *MarketDataPostgres) ListByProduct(ctx context.Context, productID string) ([]model.MarketData, error) {
	const q = `
		SELECT ` + marketDataColumns + `
		FROM market_data
		WHERE product_id = $1
		ORDER BY scraped_at ASC, id ASC
	`
	return r.list(ctx, q, productID)
}

// ListSince returns observations scraped at or after the cutoff.
func (r *MarketDataPostgres) ListSince(ctx context.Context, productID string, since time.Time) ([]model.MarketData, error) {
	const q = `
		SELECT ` + marketDataColumns + `
		FROM market_data
		WHERE product_id = $1 AND scraped_at >= $2
		ORDER BY scraped_at ASC, id ASC
	`
	return r.list(ctx, q, productID, since)
}

func (r *MarketDataPostgres) list(ctx context.Context, q string, args ...any) ([]model.MarketData, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MarketData, 0)
	for rows.Next() {
		md, err := scanMarketData(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *md)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
