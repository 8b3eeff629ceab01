package repository

import (
	"context"

	"optimapricer/internal/model"
)

// ProductRepository defines data access for products. Reads join through
// stores so results are scoped to the owning user.
type ProductRepository interface {
	// Create inserts a new product record and returns the stored row.
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	// FindByID returns the product with its store when it belongs to the
	// user.
	FindByID(ctx context.Context, id, userID string) (*model.Product, error)

	// ListByUser returns the user's products newest first, each with its
	// store and last scan time populated. storeID narrows to one store when
	// non-empty.
	ListByUser(ctx context.Context, userID, storeID string) ([]model.Product, error)

	// Update persists mutable product fields and returns the stored row.
	Update(ctx context.Context, p *model.Product) (*model.Product, error)

	// SetCompetitorPrice records the rolling average competitor price.
	SetCompetitorPrice(ctx context.Context, id string, price float64) error

	// SetCurrentPrice applies a new selling price to the product.
	SetCurrentPrice(ctx context.Context, id string, price float64) error

	// Delete removes a product by ID. Market data and recommendations
	// cascade.
	Delete(ctx context.Context, id string) error
}
