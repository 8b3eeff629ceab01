package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"optimapricer/internal/service"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Metrics(ctx context.Context, userID string) (*service.DashboardMetrics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardMetrics), args.Error(1)
}
