package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"optimapricer/internal/model"
)

type MockMarketDataRepository struct {
	mock.Mock
}

func (m *MockMarketDataRepository) Create(ctx context.Context, md *model.MarketData) (*model.MarketData, error) {
	args := m.Called(ctx, md)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketData), args.Error(1)
}

func (m *MockMarketDataRepository) ListByProduct(ctx context.Context, productID string) ([]model.MarketData, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MarketData), args.Error(1)
}

func (m *MockMarketDataRepository) ListSince(ctx context.Context, productID string, since time.Time) ([]model.MarketData, error) {
	args := m.Called(ctx, productID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MarketData), args.Error(1)
}
