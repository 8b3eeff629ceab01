package service

import (
	"context"
	"math"
	"time"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
)

// scanStaleness is how long a product may go unscanned before the
// dashboard flags it.
const scanStaleness = 7 * 24 * time.Hour

// DashboardMetrics is the headline view of a merchant's catalog health.
type DashboardMetrics struct {
	TotalProducts          int     `json:"totalProducts"`
	AvgMargin              float64 `json:"avgMargin"`
	PendingRecommendations int     `json:"pendingRecommendations"`
	PotentialUplift        float64 `json:"potentialUplift"`
	ProductsNeedingScan    int     `json:"productsNeedingScan"`
}

// DashboardService aggregates catalog-wide metrics.
type DashboardService interface {
	Metrics(ctx context.Context, userID string) (*DashboardMetrics, error)
}

type dashboardService struct {
	products repository.ProductRepository
	recs     repository.RecommendationRepository
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(products repository.ProductRepository, recs repository.RecommendationRepository) DashboardService {
	return &dashboardService{products: products, recs: recs}
}

func (s *dashboardService) Metrics(ctx context.Context, userID string) (*DashboardMetrics, error) {
	products, err := s.products.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{TotalProducts: len(products)}

	marginSum, priced := 0.0, 0
	staleCutoff := time.Now().UTC().Add(-scanStaleness)
	for _, p := range products {
		if p.CurrentPrice > 0 {
			marginSum += (p.CurrentPrice - p.CostPrice) / p.CurrentPrice * 100
			priced++
		}
		if p.LastScannedAt == nil || p.LastScannedAt.Before(staleCutoff) {
			metrics.ProductsNeedingScan++
		}
	}
	if priced > 0 {
		metrics.AvgMargin = math.Round(marginSum/float64(priced)*10) / 10
	}

	pending, err := s.recs.List(ctx, userID, repository.RecommendationFilter{Status: model.RecommendationPending})
	if err != nil {
		return nil, err
	}
	metrics.PendingRecommendations = len(pending)

	uplift := 0.0
	for _, rec := range pending {
		if rec.RevenueImpact != nil && *rec.RevenueImpact > 0 {
			uplift += *rec.RevenueImpact
		}
	}
	metrics.PotentialUplift = math.Round(uplift*100) / 100

	return metrics, nil
}
