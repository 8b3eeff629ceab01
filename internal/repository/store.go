package repository

import (
	"context"

	"optimapricer/internal/model"
)

// StoreRepository defines data access for stores. All lookups are scoped by
// the owning user's ID.
type StoreRepository interface {
	// Create inserts a new store record and returns the stored row.
	Create(ctx context.Context, s *model.Store) (*model.Store, error)

	// FindByID returns the store when it belongs to the user.
	FindByID(ctx context.Context, id, userID string) (*model.Store, error)

	// ListByUser returns the user's stores newest first, each with its
	// product count populated.
	ListByUser(ctx context.Context, userID string) ([]model.Store, error)

	// Update persists mutable store fields and returns the stored row.
	Update(ctx context.Context, s *model.Store) (*model.Store, error)

	// Delete removes a store owned by the user. Child products cascade.
	Delete(ctx context.Context, id, userID string) error
}
