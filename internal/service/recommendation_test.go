package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
	repoMocks "optimapricer/internal/repository/mocks"
	"optimapricer/internal/scraper"
)

func recProduct() *model.Product {
	return &model.Product{
		ID:            "prod-1",
		StoreID:       "store-1",
		Name:          "Widget",
		Category:      "Other",
		CostPrice:     50,
		CurrentPrice:  100,
		SalesVelocity: 10,
	}
}

func TestRecommendationService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates from fresh market data", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(recProduct(), nil)
		mMarket.On("ListSince", ctx, "prod-1", mock.Anything).Return([]model.MarketData{
			{Price: 95}, {Price: 100}, {Price: 105},
		}, nil)
		mRecs.On("FindPendingByProduct", ctx, "prod-1").Return(nil, sql.ErrNoRows)
		mRecs.On("Create", ctx, mock.MatchedBy(func(rec *model.Recommendation) bool {
			return rec.ID != "" &&
				rec.Status == model.RecommendationPending &&
				rec.SuggestedPrice == 100.0 &&
				rec.ConfidenceScore == 85
		})).Return(&model.Recommendation{ID: "rec-1", SuggestedPrice: 100}, nil)

		svc := NewRecommendationService(mRecs, mProducts, mMarket, new(mockScraper), discardLogger())
		rec, created, err := svc.Generate(ctx, "user-1", "prod-1")

		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "rec-1", rec.ID)
		assert.NotNil(t, rec.Product)
		mRecs.AssertExpectations(t)
	})

	t.Run("returns existing pending without fresh data", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)

		pending := &model.Recommendation{ID: "rec-1", ProductID: "prod-1", Status: model.RecommendationPending}

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(recProduct(), nil)
		mMarket.On("ListSince", ctx, "prod-1", mock.Anything).Return([]model.MarketData{}, nil)
		mRecs.On("FindPendingByProduct", ctx, "prod-1").Return(pending, nil)

		svc := NewRecommendationService(mRecs, mProducts, mMarket, new(mockScraper), discardLogger())
		rec, created, err := svc.Generate(ctx, "user-1", "prod-1")

		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "rec-1", rec.ID)
		mRecs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mRecs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("updates existing pending with fresh data", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)

		pending := &model.Recommendation{ID: "rec-1", ProductID: "prod-1", Status: model.RecommendationPending}

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(recProduct(), nil)
		mMarket.On("ListSince", ctx, "prod-1", mock.Anything).Return([]model.MarketData{
			{Price: 110},
		}, nil)
		mRecs.On("FindPendingByProduct", ctx, "prod-1").Return(pending, nil)
		mRecs.On("Update", ctx, mock.MatchedBy(func(rec *model.Recommendation) bool {
			return rec.ID == "rec-1" && rec.SuggestedPrice == 110.0
		})).Return(&model.Recommendation{ID: "rec-1", SuggestedPrice: 110}, nil)

		svc := NewRecommendationService(mRecs, mProducts, mMarket, new(mockScraper), discardLogger())
		rec, created, err := svc.Generate(ctx, "user-1", "prod-1")

		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 110.0, rec.SuggestedPrice)
		mRecs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("falls back to product competitor price", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)

		competitor := 120.0
		p := recProduct()
		p.CompetitorPrice = &competitor

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(p, nil)
		mMarket.On("ListSince", ctx, "prod-1", mock.Anything).Return([]model.MarketData{}, nil)
		mRecs.On("FindPendingByProduct", ctx, "prod-1").Return(nil, sql.ErrNoRows)
		mRecs.On("Create", ctx, mock.MatchedBy(func(rec *model.Recommendation) bool {
			return rec.SuggestedPrice == 120.0
		})).Return(&model.Recommendation{ID: "rec-1", SuggestedPrice: 120}, nil)

		svc := NewRecommendationService(mRecs, mProducts, mMarket, new(mockScraper), discardLogger())
		_, created, err := svc.Generate(ctx, "user-1", "prod-1")

		assert.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("scrapes when no data anywhere", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mProducts := new(repoMocks.MockProductRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)
		mScraper := new(mockScraper)

		mProducts.On("FindByID", ctx, "prod-1", "user-1").Return(recProduct(), nil)
		mMarket.On("ListSince", ctx, "prod-1", mock.Anything).Return([]model.MarketData{}, nil)
		mRecs.On("FindPendingByProduct", ctx, "prod-1").Return(nil, sql.ErrNoRows)
		mScraper.On("ScrapeAll", ctx, "Widget", "Other", false).Return(&scraper.Result{
			Prices: []scraper.ScrapedPrice{
				{Price: 98, Source: "amazon"},
				{Price: 5, Source: "google_shopping"},
			},
		}, nil)
		mMarket.On("Create", ctx, mock.MatchedBy(func(md *model.MarketData) bool {
			return md.Price == 98.0 && md.Source == "amazon"
		})).Return(&model.MarketData{}, nil).Once()
		mRecs.On("Create", ctx, mock.MatchedBy(func(rec *model.Recommendation) bool {
			return rec.SuggestedPrice == 98.0
		})).Return(&model.Recommendation{ID: "rec-1", SuggestedPrice: 98}, nil)

		svc := NewRecommendationService(mRecs, mProducts, mMarket, mScraper, discardLogger())
		_, created, err := svc.Generate(ctx, "user-1", "prod-1")

		assert.NoError(t, err)
		assert.True(t, created)
		mMarket.AssertExpectations(t)
	})
}

func TestRecommendationService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("enriches with fresh market average", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)

		mRecs.On("List", ctx, "user-1", repository.RecommendationFilter{Status: "pending"}).
			Return([]model.Recommendation{
				{ID: "rec-1", ProductID: "prod-1", Product: &model.Product{ID: "prod-1"}},
			}, nil)
		mMarket.On("ListSince", ctx, "prod-1", mock.Anything).Return([]model.MarketData{
			{Price: 90}, {Price: 110},
		}, nil)

		svc := NewRecommendationService(mRecs, new(repoMocks.MockProductRepository), mMarket, new(mockScraper), discardLogger())
		recs, err := svc.List(ctx, "user-1", repository.RecommendationFilter{Status: "pending"})

		assert.NoError(t, err)
		assert.Len(t, recs, 1)
		assert.NotNil(t, recs[0].MarketAveragePrice)
		assert.Equal(t, 100.0, *recs[0].MarketAveragePrice)
		assert.Equal(t, 2, recs[0].MarketPriceCount)
	})

	t.Run("falls back to product competitor price", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mMarket := new(repoMocks.MockMarketDataRepository)

		competitor := 88.0
		mRecs.On("List", ctx, "user-1", repository.RecommendationFilter{}).
			Return([]model.Recommendation{
				{ID: "rec-1", ProductID: "prod-1", Product: &model.Product{ID: "prod-1", CompetitorPrice: &competitor}},
			}, nil)
		mMarket.On("ListSince", ctx, "prod-1", mock.Anything).Return([]model.MarketData{}, nil)

		svc := NewRecommendationService(mRecs, new(repoMocks.MockProductRepository), mMarket, new(mockScraper), discardLogger())
		recs, err := svc.List(ctx, "user-1", repository.RecommendationFilter{})

		assert.NoError(t, err)
		assert.Equal(t, 88.0, *recs[0].MarketAveragePrice)
		assert.Equal(t, 0, recs[0].MarketPriceCount)
	})
}

func TestRecommendationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	rec := &model.Recommendation{
		ID:             "rec-1",
		ProductID:      "prod-1",
		SuggestedPrice: 110,
		Status:         model.RecommendationPending,
		Product:        recProduct(),
	}

	t.Run("apply updates product price", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mProducts := new(repoMocks.MockProductRepository)

		mRecs.On("FindByID", ctx, "rec-1", "user-1").Return(rec, nil).Once()
		mProducts.On("SetCurrentPrice", ctx, "prod-1", 110.0).Return(nil)
		mRecs.On("SetStatus", ctx, "rec-1", model.RecommendationApplied).Return(nil)
		mRecs.On("FindByID", ctx, "rec-1", "user-1").
			Return(&model.Recommendation{ID: "rec-1", Status: model.RecommendationApplied}, nil).Once()

		svc := NewRecommendationService(mRecs, mProducts, new(repoMocks.MockMarketDataRepository), new(mockScraper), discardLogger())
		updated, err := svc.UpdateStatus(ctx, "rec-1", "user-1", RecommendationUpdateInput{
			Status:     model.RecommendationApplied,
			ApplyPrice: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.RecommendationApplied, updated.Status)
		mProducts.AssertExpectations(t)
	})

	t.Run("reject leaves product untouched", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mProducts := new(repoMocks.MockProductRepository)

		mRecs.On("FindByID", ctx, "rec-1", "user-1").Return(rec, nil).Once()
		mRecs.On("SetStatus", ctx, "rec-1", model.RecommendationRejected).Return(nil)
		mRecs.On("FindByID", ctx, "rec-1", "user-1").
			Return(&model.Recommendation{ID: "rec-1", Status: model.RecommendationRejected}, nil).Once()

		svc := NewRecommendationService(mRecs, mProducts, new(repoMocks.MockMarketDataRepository), new(mockScraper), discardLogger())
		updated, err := svc.UpdateStatus(ctx, "rec-1", "user-1", RecommendationUpdateInput{
			Status: model.RecommendationRejected,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.RecommendationRejected, updated.Status)
		mProducts.AssertNotCalled(t, "SetCurrentPrice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mRecs.On("FindByID", ctx, "ghost", "user-1").Return(nil, sql.ErrNoRows)

		svc := NewRecommendationService(mRecs, new(repoMocks.MockProductRepository), new(repoMocks.MockMarketDataRepository), new(mockScraper), discardLogger())
		_, err := svc.UpdateStatus(ctx, "ghost", "user-1", RecommendationUpdateInput{Status: model.RecommendationApplied})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRecommendationService_Elasticity(t *testing.T) {
	ctx := context.Background()

	t.Run("uses sales velocity as base demand", func(t *testing.T) {
		mRecs := new(repoMocks.MockRecommendationRepository)
		mRecs.On("FindByID", ctx, "rec-1", "user-1").Return(&model.Recommendation{
			ID:             "rec-1",
			SuggestedPrice: 90,
			Product:        recProduct(),
		}, nil)

		svc := NewRecommendationService(mRecs, new(repoMocks.MockProductRepository), new(repoMocks.MockMarketDataRepository), new(mockScraper), discardLogger())
		report, err := svc.Elasticity(ctx, "rec-1", "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 10.0, report.BaseDemand)
		assert.Len(t, report.Curve, 20)
	})

	t.Run("defaults base demand to 100", func(t *testing.T) {
		p := recProduct()
		p.SalesVelocity = 0

		mRecs := new(repoMocks.MockRecommendationRepository)
		mRecs.On("FindByID", ctx, "rec-1", "user-1").Return(&model.Recommendation{
			ID:             "rec-1",
			SuggestedPrice: 90,
			Product:        p,
		}, nil)

		svc := NewRecommendationService(mRecs, new(repoMocks.MockProductRepository), new(repoMocks.MockMarketDataRepository), new(mockScraper), discardLogger())
		report, err := svc.Elasticity(ctx, "rec-1", "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 100.0, report.BaseDemand)
	})
}
