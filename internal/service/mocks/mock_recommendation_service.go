package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"optimapricer/internal/model"
	"optimapricer/internal/pricing"
	"optimapricer/internal/repository"
	"optimapricer/internal/service"
)

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) List(ctx context.Context, userID string, f repository.RecommendationFilter) ([]model.Recommendation, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recommendation), args.Error(1)
}

func (m *MockRecommendationService) Generate(ctx context.Context, userID, productID string) (*model.Recommendation, bool, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Recommendation), args.Bool(1), args.Error(2)
}

func (m *MockRecommendationService) UpdateStatus(ctx context.Context, id, userID string, in service.RecommendationUpdateInput) (*model.Recommendation, error) {
	args := m.Called(ctx, id, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recommendation), args.Error(1)
}

func (m *MockRecommendationService) Elasticity(ctx context.Context, id, userID string) (*pricing.ElasticityReport, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ElasticityReport), args.Error(1)
}
