package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"optimapricer/internal/model"
	"optimapricer/internal/pricing"
	"optimapricer/internal/repository"
	"optimapricer/internal/scraper"
)

// freshDataWindow is how far back market data counts as fresh when
// generating or enriching recommendations.
const freshDataWindow = 24 * time.Hour

// RecommendationUpdateInput carries a status transition. ApplyPrice makes
// an applied recommendation also overwrite the product's selling price.
type RecommendationUpdateInput struct {
	Status     string
	ApplyPrice bool
}

// RecommendationService defines the price recommendation use cases.
type RecommendationService interface {
	// List returns the user's recommendations enriched with the fresh
	// market average for each product.
	List(ctx context.Context, userID string, f repository.RecommendationFilter) ([]model.Recommendation, error)

	// Generate computes a recommendation for the product. An existing
	// pending recommendation is updated in place when fresh market data is
	// available, and returned as-is otherwise. The bool reports whether a
	// new row was created.
	Generate(ctx context.Context, userID, productID string) (*model.Recommendation, bool, error)

	// UpdateStatus transitions a recommendation and optionally applies the
	// suggested price to the product.
	UpdateStatus(ctx context.Context, id, userID string, in RecommendationUpdateInput) (*model.Recommendation, error)

	// Elasticity builds the demand curve analysis for a recommendation.
	Elasticity(ctx context.Context, id, userID string) (*pricing.ElasticityReport, error)
}

type recommendationService struct {
	recs       repository.RecommendationRepository
	products   repository.ProductRepository
	marketData repository.MarketDataRepository
	scraper    scraper.Scraper
	logger     *slog.Logger
}

// NewRecommendationService constructs a new RecommendationService.
func NewRecommendationService(
	recs repository.RecommendationRepository,
	products repository.ProductRepository,
	marketData repository.MarketDataRepository,
	sc scraper.Scraper,
	logger *slog.Logger,
) RecommendationService {
	return &recommendationService{
		recs:       recs,
		products:   products,
		marketData: marketData,
		scraper:    sc,
		logger:     logger.With(slog.String("component", "recommendations")),
	}
}

func (s *recommendationService) List(ctx context.Context, userID string, f repository.RecommendationFilter) ([]model.Recommendation, error) {
	recs, err := s.recs.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-freshDataWindow)
	for i := range recs {
		recent, err := s.marketData.ListSince(ctx, recs[i].ProductID, cutoff)
		if err != nil {
			return nil, err
		}
		if len(recent) > 0 {
			sum := 0.0
			for _, md := range recent {
				sum += md.Price
			}
			avg := sum / float64(len(recent))
			recs[i].MarketAveragePrice = &avg
			recs[i].MarketPriceCount = len(recent)
		} else if recs[i].Product != nil && recs[i].Product.CompetitorPrice != nil {
			recs[i].MarketAveragePrice = recs[i].Product.CompetitorPrice
		}
	}
	return recs, nil
}

func (s *recommendationService) Generate(ctx context.Context, userID, productID string) (*model.Recommendation, bool, error) {
	if productID == "" {
		return nil, false, ErrIDRequired
	}
	p, err := s.products.FindByID(ctx, productID, userID)
	if err != nil {
		return nil, false, mapNoRows(err)
	}

	cutoff := time.Now().UTC().Add(-freshDataWindow)
	recent, err := s.marketData.ListSince(ctx, productID, cutoff)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.recs.FindPendingByProduct(ctx, productID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	// Without fresh data there is nothing to recompute: hand back the
	// pending recommendation instead of stacking a duplicate.
	if existing != nil && len(recent) == 0 {
		existing.Product = p
		return existing, false, nil
	}

	var competitorPrices []float64
	switch {
	case len(recent) > 0:
		for _, md := range recent {
			competitorPrices = append(competitorPrices, md.Price)
		}
	case p.CompetitorPrice != nil:
		competitorPrices = []float64{*p.CompetitorPrice}
	}

	if len(competitorPrices) == 0 {
		competitorPrices, err = s.scrapeForProduct(ctx, p)
		if err != nil {
			return nil, false, err
		}
	}

	opt := pricing.Optimize(toPricingProduct(p), competitorPrices)

	now := time.Now().UTC()
	rec := existing
	if rec == nil {
		rec = &model.Recommendation{
			ID:        uuid.New().String(),
			ProductID: productID,
			Status:    model.RecommendationPending,
			CreatedAt: now,
		}
	}
	rec.SuggestedPrice = opt.SuggestedPrice
	rec.PredictedMargin = opt.PredictedMargin
	rec.ConfidenceScore = opt.ConfidenceScore
	rec.Rationale = opt.Rationale
	rec.RiskLevel = opt.RiskLevel
	rec.CompetitorMinPrice = &opt.CompetitorMinPrice
	rec.CompetitorMaxPrice = &opt.CompetitorMaxPrice
	rec.MarketPosition = &opt.MarketPosition
	rec.Strategy = &opt.Strategy
	rec.ImplementationTiming = &opt.ImplementationTiming
	rec.RevenueImpact = &opt.RevenueImpact
	rec.UpdatedAt = now

	var stored *model.Recommendation
	created := existing == nil
	if created {
		stored, err = s.recs.Create(ctx, rec)
	} else {
		stored, err = s.recs.Update(ctx, rec)
	}
	if err != nil {
		return nil, false, err
	}
	stored.Product = p

	s.logger.InfoContext(ctx, "recommendation generated",
		slog.String("product_id", productID),
		slog.Bool("created", created),
		slog.Float64("suggested_price", stored.SuggestedPrice),
		slog.Int("market_prices", len(competitorPrices)))

	return stored, created, nil
}

// scrapeForProduct fetches and persists competitor prices when a product
// has no market data at all. Validation here is stricter than the scan
// path: no retailer allowances, just cost and current price bands.
func (s *recommendationService) scrapeForProduct(ctx context.Context, p *model.Product) ([]float64, error) {
	res, err := s.scraper.ScrapeAll(ctx, p.Name, p.Category, false)
	if err != nil {
		return nil, fmt.Errorf("scrape prices: %w", err)
	}

	scrapedAt := time.Now().UTC()
	var prices []float64
	for _, sp := range res.Prices {
		if p.CostPrice > 0 && sp.Price < p.CostPrice*0.5 {
			continue
		}
		if p.CurrentPrice > 0 && (sp.Price < p.CurrentPrice*0.1 || sp.Price > p.CurrentPrice*5.0) {
			continue
		}

		md := &model.MarketData{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Source:    sp.Source,
			Price:     sp.Price,
			ScrapedAt: scrapedAt,
		}
		if sp.URL != "" {
			u := sp.URL
			md.URL = &u
		}
		if _, err := s.marketData.Create(ctx, md); err != nil {
			return nil, fmt.Errorf("store market data: %w", err)
		}
		prices = append(prices, sp.Price)
	}
	return prices, nil
}

func (s *recommendationService) UpdateStatus(ctx context.Context, id, userID string, in RecommendationUpdateInput) (*model.Recommendation, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.recs.FindByID(ctx, id, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}

	if in.Status == model.RecommendationApplied && in.ApplyPrice {
		if err := s.products.SetCurrentPrice(ctx, rec.ProductID, rec.SuggestedPrice); err != nil {
			return nil, fmt.Errorf("apply price: %w", err)
		}
	}

	if in.Status != "" {
		if err := s.recs.SetStatus(ctx, id, in.Status); err != nil {
			return nil, err
		}
	}

	updated, err := s.recs.FindByID(ctx, id, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return updated, nil
}

func (s *recommendationService) Elasticity(ctx context.Context, id, userID string) (*pricing.ElasticityReport, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.recs.FindByID(ctx, id, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	p := rec.Product

	baseDemand := p.SalesVelocity
	if baseDemand <= 0 {
		baseDemand = 100.0
	}

	report := pricing.BuildElasticityReport(toPricingProduct(p), p.CurrentPrice, rec.SuggestedPrice, baseDemand)
	return &report, nil
}
