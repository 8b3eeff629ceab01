package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
)

// StoreInput carries the fields for creating a store.
type StoreInput struct {
	Name      string
	Platform  string
	APIKey    *string
	APISecret *string
}

// StoreUpdateInput applies partial updates; nil fields are left unchanged.
type StoreUpdateInput struct {
	Name      *string
	Platform  *string
	APIKey    *string
	APISecret *string
	IsActive  *bool
}

// StoreService defines the store management use cases.
type StoreService interface {
	Create(ctx context.Context, userID string, in StoreInput) (*model.Store, error)
	Get(ctx context.Context, id, userID string) (*model.Store, error)
	List(ctx context.Context, userID string) ([]model.Store, error)
	Update(ctx context.Context, id, userID string, in StoreUpdateInput) (*model.Store, error)
	Delete(ctx context.Context, id, userID string) error
}

type storeService struct {
	stores repository.StoreRepository
}

// NewStoreService constructs a new StoreService.
func NewStoreService(stores repository.StoreRepository) StoreService {
	return &storeService{stores: stores}
}

func (s *storeService) Create(ctx context.Context, userID string, in StoreInput) (*model.Store, error) {
	platform := in.Platform
	if platform == "" {
		platform = model.PlatformOther
	}

	now := time.Now().UTC()
	store := &model.Store{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Platform:  platform,
		APIKey:    in.APIKey,
		APISecret: in.APISecret,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.stores.Create(ctx, store)
}

func (s *storeService) Get(ctx context.Context, id, userID string) (*model.Store, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	store, err := s.stores.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) List(ctx context.Context, userID string) ([]model.Store, error) {
	return s.stores.ListByUser(ctx, userID)
}

func (s *storeService) Update(ctx context.Context, id, userID string, in StoreUpdateInput) (*model.Store, error) {
	store, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		store.Name = *in.Name
	}
	if in.Platform != nil {
		store.Platform = *in.Platform
	}
	if in.APIKey != nil {
		store.APIKey = in.APIKey
	}
	if in.APISecret != nil {
		store.APISecret = in.APISecret
	}
	if in.IsActive != nil {
		store.IsActive = *in.IsActive
	}
	store.UpdatedAt = time.Now().UTC()

	return s.stores.Update(ctx, store)
}

func (s *storeService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.stores.Delete(ctx, id, userID)
}
