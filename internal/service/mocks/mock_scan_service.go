package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"optimapricer/internal/service"
)

type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Scan(ctx context.Context, productID, userID string) (*service.ScanResult, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanResult), args.Error(1)
}

func (m *MockScanService) TestScrape(ctx context.Context, in service.TestScrapeInput) (*service.TestScrapeResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TestScrapeResult), args.Error(1)
}
