package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"optimapricer/internal/model"
	repoMocks "optimapricer/internal/repository/mocks"
	"optimapricer/internal/scraper"
	"optimapricer/internal/storage"
	storeMocks "optimapricer/internal/storage/mocks"
)

type mockScraper struct {
	mock.Mock
}

func (m *mockScraper) ScrapeAll(ctx context.Context, productName, category string, forceRefresh bool) (*scraper.Result, error) {
	args := m.Called(ctx, productName, category, forceRefresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scraper.Result), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanService_Scan(t *testing.T) {
	ctx := context.Background()

	product := &model.Product{
		ID:           "prod-1",
		Name:         "Widget",
		Category:     "Other",
		CostPrice:    50,
		CurrentPrice: 100,
	}

	t.Run("happy path with snapshot", func(t *testing.T) {
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)
		mScraper := new(mockScraper)
		mStore := new(storeMocks.MockStorage)

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(product, nil)
		mScraper.On("ScrapeAll", ctx, "Widget", "Other", true).Return(&scraper.Result{
			Prices: []scraper.ScrapedPrice{
				{Price: 95, Source: "amazon", URL: "https://www.amazon.com/dp/B0ABC"},
				{Price: 105, Source: "walmart"},
				{Price: 5, Source: "google_shopping"},
			},
			HTML: []byte("<html>results</html>"),
		}, nil)
		mStore.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "snapshots/prod-1/") && strings.HasSuffix(key, ".html")
		}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mMarket.On("Create", mock.Anything, mock.MatchedBy(func(md *model.MarketData) bool {
			return md.ProductID == "prod-1" && md.SnapshotKey != nil
		})).Return(&model.MarketData{}, nil).Twice()
		mProducts.On("SetCompetitorPrice", ctx, "prod-1", 100.0).Return(nil)

		svc := NewScanService(mProducts, mMarket, mScraper, mStore, discardLogger())
		res, err := svc.Scan(ctx, "prod-1", "user-1")

		assert.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 100.0, res.AveragePrice)
		assert.Equal(t, 95.0, res.PriceRange.Min)
		assert.Equal(t, 105.0, res.PriceRange.Max)
		assert.Equal(t, 3, res.Sources)
		mMarket.AssertExpectations(t)
		mProducts.AssertExpectations(t)
	})

	t.Run("no snapshot store configured", func(t *testing.T) {
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)
		mScraper := new(mockScraper)

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(product, nil)
		mScraper.On("ScrapeAll", ctx, "Widget", "Other", true).Return(&scraper.Result{
			Prices: []scraper.ScrapedPrice{{Price: 100, Source: "amazon"}},
			HTML:   []byte("<html></html>"),
		}, nil)
		mMarket.On("Create", mock.Anything, mock.MatchedBy(func(md *model.MarketData) bool {
			return md.SnapshotKey == nil
		})).Return(&model.MarketData{}, nil)
		mProducts.On("SetCompetitorPrice", ctx, "prod-1", 100.0).Return(nil)

		svc := NewScanService(mProducts, mMarket, mScraper, nil, discardLogger())
		res, err := svc.Scan(ctx, "prod-1", "user-1")

		assert.NoError(t, err)
		assert.True(t, res.Success)
	})

	t.Run("product not found", func(t *testing.T) {
		mProducts := new(repoMocks.MockProductRepository)
		mProducts.On("FindByID", ctx, "ghost", "user-1").Return(nil, sql.ErrNoRows)

		svc := NewScanService(mProducts, new(repoMocks.MockMarketDataRepository), new(mockScraper), nil, discardLogger())
		_, err := svc.Scan(ctx, "ghost", "user-1")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nothing scraped", func(t *testing.T) {
		mProducts := new(repoMocks.MockProductRepository)
		mScraper := new(mockScraper)

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(product, nil)
		mScraper.On("ScrapeAll", ctx, "Widget", "Other", true).Return(&scraper.Result{}, nil)

		svc := NewScanService(mProducts, new(repoMocks.MockMarketDataRepository), mScraper, nil, discardLogger())
		_, err := svc.Scan(ctx, "prod-1", "user-1")

		assert.ErrorIs(t, err, ErrNoMarketData)
	})

	t.Run("all prices rejected", func(t *testing.T) {
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)
		mScraper := new(mockScraper)

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(product, nil)
		mScraper.On("ScrapeAll", ctx, "Widget", "Other", true).Return(&scraper.Result{
			Prices: []scraper.ScrapedPrice{{Price: 5, Source: "google_shopping"}},
		}, nil)

		svc := NewScanService(mProducts, mMarket, mScraper, nil, discardLogger())
		_, err := svc.Scan(ctx, "prod-1", "user-1")

		assert.ErrorIs(t, err, ErrNoValidPrices)
		mMarket.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("implausible session average", func(t *testing.T) {
		// Individual prices pass the major-retailer band but the session
		// average lands above the 10x cost ceiling.
		expensive := &model.Product{ID: "prod-2", Name: "Pro Camera", Category: "Other", CostPrice: 200}

		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)
		mScraper := new(mockScraper)

		mProducts.On("FindByID", ctx, "prod-2", "user-1").Return(expensive, nil)
		mScraper.On("ScrapeAll", ctx, "Pro Camera", "Other", true).Return(&scraper.Result{
			Prices: []scraper.ScrapedPrice{
				{Price: 2900, Source: "amazon"},
				{Price: 2800, Source: "amazon"},
			},
		}, nil)
		mMarket.On("Create", mock.Anything, mock.Anything).Return(&model.MarketData{}, nil).Twice()

		svc := NewScanService(mProducts, mMarket, mScraper, nil, discardLogger())
		_, err := svc.Scan(ctx, "prod-2", "user-1")

		assert.ErrorIs(t, err, ErrNoValidPrices)
		// Observations are kept for history even when the average is
		// rejected.
		mMarket.AssertExpectations(t)
		mProducts.AssertNotCalled(t, "SetCompetitorPrice", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestScanService_TestScrape(t *testing.T) {
	ctx := context.Background()

	mScraper := new(mockScraper)
	mScraper.On("ScrapeAll", ctx, "iPhone 15", "Electronics", false).Return(&scraper.Result{
		Prices: []scraper.ScrapedPrice{
			{Price: 950, Source: "amazon"},
			{Price: 40, Source: "google_shopping"},
		},
	}, nil)

	svc := NewScanService(new(repoMocks.MockProductRepository), new(repoMocks.MockMarketDataRepository), mScraper, nil, discardLogger())
	res, err := svc.TestScrape(ctx, TestScrapeInput{
		Product:      "iPhone 15",
		Category:     "Electronics",
		CostPrice:    700,
		CurrentPrice: 1000,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalPricesFound)
	assert.Equal(t, 1, res.ValidatedCount)
	assert.True(t, res.Prices[0].Validated)
	assert.False(t, res.Prices[1].Validated)
	assert.NotNil(t, res.AveragePrice)
	assert.Equal(t, 950.0, *res.AveragePrice)
}
