package repository

import (
	"context"

	"optimapricer/internal/model"
)

// RecommendationFilter narrows recommendation listings. Empty fields match
// everything.
type RecommendationFilter struct {
	Status    string
	ProductID string
}

// RecommendationRepository defines data access for price recommendations.
// Reads join through products and stores so results are scoped to the
// owning user.
type RecommendationRepository interface {
	// Create inserts a new recommendation and returns the stored row.
	Create(ctx context.Context, rec *model.Recommendation) (*model.Recommendation, error)

	// FindByID returns the recommendation with its product when it belongs
	// to the user.
	FindByID(ctx context.Context, id, userID string) (*model.Recommendation, error)

	// List returns the user's recommendations newest first, each with its
	// product populated.
	List(ctx context.Context, userID string, f RecommendationFilter) ([]model.Recommendation, error)

	// FindPendingByProduct returns the product's pending recommendation, or
	// sql.ErrNoRows when none exists.
	FindPendingByProduct(ctx context.Context, productID string) (*model.Recommendation, error)

	// Update persists recomputed optimizer fields and returns the stored
	// row.
	Update(ctx context.Context, rec *model.Recommendation) (*model.Recommendation, error)

	// SetStatus transitions the recommendation's status.
	SetStatus(ctx context.Context, id, status string) error
}
