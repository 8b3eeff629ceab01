package repository

import (
	"context"
	"time"

	"optimapricer/internal/model"
)

// MarketDataRepository defines data access for scraped price observations.
// Ownership of the parent product is checked by the caller.
type MarketDataRepository interface {
	// Create inserts one observation and returns the stored row.
	Create(ctx context.Context, md *model.MarketData) (*model.MarketData, error)

	// ListByProduct returns all observations for a product, oldest first.
	ListByProduct(ctx context.Context, productID string) ([]model.MarketData, error)

	// ListSince returns observations scraped at or after the cutoff.
	ListSince(ctx context.Context, productID string, since time.Time) ([]model.MarketData, error)
}
