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

// ProductInput carries the fields for registering a product.
type ProductInput struct {
	StoreID         string
	Name            string
	SKU             string
	Category        string
	CostPrice       float64
	CurrentPrice    float64
	CompetitorPrice *float64
	SalesVelocity   float64
}

// ProductUpdateInput applies partial updates; nil fields are left
// unchanged. A CompetitorPrice of 0 clears the stored value.
type ProductUpdateInput struct {
	Name            *string
	SKU             *string
	Category        *string
	CostPrice       *float64
	CurrentPrice    *float64
	CompetitorPrice *float64
	SalesVelocity   *float64
}

// TrendPoint aggregates one scan session for the market data history.
type TrendPoint struct {
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Average   float64   `json:"average"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Count     int       `json:"count"`
	Sources   int       `json:"sources"`
}

// MarketDataReport is the scan history view for a product: per-session
// trend points plus the raw price distribution of the most recent scan.
type MarketDataReport struct {
	Trend               []TrendPoint `json:"trend"`
	CurrentDistribution []float64    `json:"currentDistribution"`
	AllPrices           []float64    `json:"allPrices"`
	ProductPrice        float64      `json:"productPrice"`
	TotalDataPoints     int          `json:"totalDataPoints"`
	ScanSessions        int          `json:"scanSessions"`
}

// ProductService defines the product catalog use cases.
type ProductService interface {
	Create(ctx context.Context, userID string, in ProductInput) (*model.Product, error)
	Get(ctx context.Context, id, userID string) (*model.Product, error)
	List(ctx context.Context, userID, storeID string) ([]model.Product, error)
	Update(ctx context.Context, id, userID string, in ProductUpdateInput) (*model.Product, error)
	Delete(ctx context.Context, id, userID string) error
	MarketData(ctx context.Context, id, userID string) (*MarketDataReport, error)
}

type productService struct {
	products   repository.ProductRepository
	stores     repository.StoreRepository
	marketData repository.MarketDataRepository
}

// NewProductService constructs a new ProductService.
func NewProductService(products repository.ProductRepository, stores repository.StoreRepository, marketData repository.MarketDataRepository) ProductService {
	return &productService{products: products, stores: stores, marketData: marketData}
}

func (s *productService) Create(ctx context.Context, userID string, in ProductInput) (*model.Product, error) {
	// The target store must belong to the caller.
	if _, err := s.stores.FindByID(ctx, in.StoreID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = "Other"
	}

	now := time.Now().UTC()
	p := &model.Product{
		ID:              uuid.New().String(),
		StoreID:         in.StoreID,
		Name:            in.Name,
		SKU:             in.SKU,
		Category:        category,
		CostPrice:       in.CostPrice,
		CurrentPrice:    in.CurrentPrice,
		CompetitorPrice: in.CompetitorPrice,
		SalesVelocity:   in.SalesVelocity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID, userID)
}

func (s *productService) Get(ctx context.Context, id, userID string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.products.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, userID, storeID string) ([]model.Product, error) {
	return s.products.ListByUser(ctx, userID, storeID)
}

func (s *productService) Update(ctx context.Context, id, userID string, in ProductUpdateInput) (*model.Product, error) {
	p, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.CurrentPrice != nil {
		p.CurrentPrice = *in.CurrentPrice
	}
	if in.CompetitorPrice != nil {
		if *in.CompetitorPrice > 0 {
			p.CompetitorPrice = in.CompetitorPrice
		} else {
			p.CompetitorPrice = nil
		}
	}
	if in.SalesVelocity != nil {
		p.SalesVelocity = *in.SalesVelocity
	}
	p.UpdatedAt = time.Now().UTC()

	if _, err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, userID)
}

func (s *productService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	// Market data and recommendations cascade in the database.
	return s.products.Delete(ctx, id)
}

// MarketData groups a product's observations into hourly scan sessions and
// derives the trend and distribution series used by the history charts.
func (s *productService) MarketData(ctx context.Context, id, userID string) (*MarketDataReport, error) {
	p, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	observations, err := s.marketData.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &MarketDataReport{
		Trend:               []TrendPoint{},
		CurrentDistribution: []float64{},
		AllPrices:           []float64{},
		ProductPrice:        p.CurrentPrice,
		TotalDataPoints:     len(observations),
	}
	if len(observations) == 0 {
		return report, nil
	}

	// Observations within the same UTC hour belong to one scan session.
	type session struct {
		first   time.Time
		prices  []float64
		sources map[string]struct{}
	}
	sessions := make(map[string]*session)
	var keys []string
	for _, md := range observations {
		key := md.ScrapedAt.UTC().Format("2006-01-02 15:00")
		sess, ok := sessions[key]
		if !ok {
			sess = &session{first: md.ScrapedAt.UTC(), sources: make(map[string]struct{})}
			sessions[key] = sess
			keys = append(keys, key)
		}
		sess.prices = append(sess.prices, md.Price)
		sess.sources[md.Source] = struct{}{}
	}

	// keys are already chronological: observations arrive oldest first.
	for _, key := range keys {
		sess := sessions[key]
		sum, min, max := 0.0, sess.prices[0], sess.prices[0]
		for _, price := range sess.prices {
			sum += price
			if price < min {
				min = price
			}
			if price > max {
				max = price
			}
		}
		report.Trend = append(report.Trend, TrendPoint{
			Date:      sess.first.Format("2006-01-02"),
			Timestamp: sess.first,
			Average:   sum / float64(len(sess.prices)),
			Min:       min,
			Max:       max,
			Count:     len(sess.prices),
			Sources:   len(sess.sources),
		})
		report.AllPrices = append(report.AllPrices, sess.prices...)
	}
	report.ScanSessions = len(keys)

	// Distribution reflects the most recent scan's market landscape.
	if len(keys) == 1 {
		report.CurrentDistribution = report.AllPrices
	} else {
		report.CurrentDistribution = sessions[keys[len(keys)-1]].prices
	}

	return report, nil
}
