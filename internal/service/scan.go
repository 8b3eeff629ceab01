package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
	"optimapricer/internal/scraper"
	"optimapricer/internal/storage"
)

// insertWorkers bounds concurrent market data inserts per scan.
const insertWorkers = 4

// PriceRange summarizes the validated observations of one scan.
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// ScanResult is the outcome of a competitor price scan.
type ScanResult struct {
	Success      bool        `json:"success"`
	AveragePrice float64     `json:"averagePrice,omitempty"`
	PriceRange   *PriceRange `json:"priceRange,omitempty"`
	Sources      int         `json:"sources"`
}

// TestScrapePrice is one observation in a test scrape, flagged with its
// validation verdict.
type TestScrapePrice struct {
	Price     float64 `json:"price"`
	Source    string  `json:"source"`
	URL       string  `json:"url"`
	Validated bool    `json:"validated"`
}

// TestScrapeInput drives an ad-hoc scrape without touching the catalog.
type TestScrapeInput struct {
	Product      string
	Category     string
	CostPrice    float64
	CurrentPrice float64
}

// TestScrapeResult reports what a test scrape found.
type TestScrapeResult struct {
	Product          string            `json:"product"`
	Category         string            `json:"category"`
	TotalPricesFound int               `json:"totalPricesFound"`
	ValidatedCount   int               `json:"validatedCount"`
	Prices           []TestScrapePrice `json:"prices"`
	ValidatedPrices  []float64         `json:"validatedPrices"`
	AveragePrice     *float64          `json:"averagePrice"`
}

// ScanService runs competitor price scans and persists the observations.
type ScanService interface {
	// Scan scrapes fresh competitor prices for the product, stores the
	// validated observations, archives the page snapshot, and updates the
	// product's rolling competitor price.
	Scan(ctx context.Context, productID, userID string) (*ScanResult, error)

	// TestScrape runs a scrape against arbitrary inputs without persisting
	// anything. Useful for verifying the scraper end to end.
	TestScrape(ctx context.Context, in TestScrapeInput) (*TestScrapeResult, error)
}

type scanService struct {
	products   repository.ProductRepository
	marketData repository.MarketDataRepository
	scraper    scraper.Scraper
	snapshots  storage.Storage
	logger     *slog.Logger
}

// NewScanService constructs a new ScanService. snapshots may be nil, in
// which case raw pages are not archived.
func NewScanService(
	products repository.ProductRepository,
	marketData repository.MarketDataRepository,
	sc scraper.Scraper,
	snapshots storage.Storage,
	logger *slog.Logger,
) ScanService {
	return &scanService{
		products:   products,
		marketData: marketData,
		scraper:    sc,
		snapshots:  snapshots,
		logger:     logger.With(slog.String("component", "scan")),
	}
}

func (s *scanService) Scan(ctx context.Context, productID, userID string) (*ScanResult, error) {
	p, err := s.products.FindByID(ctx, productID, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}

	res, err := s.scraper.ScrapeAll(ctx, p.Name, p.Category, true)
	if err != nil {
		return nil, fmt.Errorf("scrape prices: %w", err)
	}
	if len(res.Prices) == 0 {
		return nil, ErrNoMarketData
	}

	validated := make([]scraper.ScrapedPrice, 0, len(res.Prices))
	for _, sp := range res.Prices {
		if scraper.ValidObservation(sp.Price, p.CostPrice, p.CurrentPrice, sp.Source) {
			validated = append(validated, sp)
		} else {
			s.logger.DebugContext(ctx, "rejected scraped price",
				slog.Float64("price", sp.Price), slog.String("source", sp.Source))
		}
	}
	if len(validated) == 0 {
		return nil, ErrNoValidPrices
	}

	snapshotKey := s.archiveSnapshot(ctx, productID, res.HTML)

	// One timestamp for the whole session so observations group together.
	scrapedAt := time.Now().UTC()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(insertWorkers)
	for _, sp := range validated {
		sp := sp
		g.Go(func() error {
			md := &model.MarketData{
				ID:          uuid.New().String(),
				ProductID:   productID,
				Source:      sp.Source,
				Price:       sp.Price,
				SnapshotKey: snapshotKey,
				ScrapedAt:   scrapedAt,
			}
			if sp.URL != "" {
				u := sp.URL
				md.URL = &u
			}
			_, err := s.marketData.Create(gctx, md)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("store market data: %w", err)
	}

	sum, min, max := 0.0, validated[0].Price, validated[0].Price
	for _, sp := range validated {
		sum += sp.Price
		if sp.Price < min {
			min = sp.Price
		}
		if sp.Price > max {
			max = sp.Price
		}
	}
	avg := sum / float64(len(validated))

	// The session average itself gets a final sanity check before it
	// becomes the product's rolling competitor price.
	if !averagePlausible(avg, p.CostPrice, p.CurrentPrice) {
		s.logger.WarnContext(ctx, "scan average outside plausible range",
			slog.String("product_id", productID), slog.Float64("average", avg))
		return nil, ErrNoValidPrices
	}

	if err := s.products.SetCompetitorPrice(ctx, productID, avg); err != nil {
		return nil, fmt.Errorf("update competitor price: %w", err)
	}

	s.logger.InfoContext(ctx, "scan stored",
		slog.String("product_id", productID),
		slog.Int("accepted", len(validated)),
		slog.Int("scraped", len(res.Prices)),
		slog.Float64("average", avg))

	return &ScanResult{
		Success:      true,
		AveragePrice: avg,
		PriceRange:   &PriceRange{Min: min, Max: max, Average: avg},
		Sources:      len(res.Prices),
	}, nil
}

// archiveSnapshot uploads the raw page to the snapshot bucket. Failures are
// logged and ignored: the scan result matters more than its audit trail.
func (s *scanService) archiveSnapshot(ctx context.Context, productID string, html []byte) *string {
	if s.snapshots == nil || len(html) == 0 {
		return nil
	}

	key := fmt.Sprintf("snapshots/%s/%s.html", productID, time.Now().UTC().Format("20060102T150405Z"))
	_, err := s.snapshots.Put(ctx, key, bytes.NewReader(html), storage.PutObjectOptions{
		Size:        int64(len(html)),
		ContentType: "text/html; charset=utf-8",
		Metadata:    map[string]string{"product-id": productID},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "archive snapshot failed",
			slog.String("product_id", productID), slog.Any("error", err))
		return nil
	}
	return &key
}

// averagePlausible applies the looser whole-session bounds: the average may
// pass even when individual outliers were rejected.
func averagePlausible(avg, costPrice, currentPrice float64) bool {
	if costPrice > 0 {
		if avg < costPrice*0.5 {
			return false
		}
		if avg > costPrice*10 && costPrice > 100 {
			return false
		}
	}
	if currentPrice > 0 {
		if avg < currentPrice*0.1 || avg > currentPrice*5.0 {
			return false
		}
	}
	return true
}

func (s *scanService) TestScrape(ctx context.Context, in TestScrapeInput) (*TestScrapeResult, error) {
	res, err := s.scraper.ScrapeAll(ctx, in.Product, in.Category, false)
	if err != nil {
		return nil, fmt.Errorf("scrape prices: %w", err)
	}

	out := &TestScrapeResult{
		Product:          in.Product,
		Category:         in.Category,
		TotalPricesFound: len(res.Prices),
		Prices:           make([]TestScrapePrice, 0, len(res.Prices)),
		ValidatedPrices:  []float64{},
	}

	sum := 0.0
	for _, sp := range res.Prices {
		valid := scraper.ValidObservation(sp.Price, in.CostPrice, in.CurrentPrice, sp.Source)
		out.Prices = append(out.Prices, TestScrapePrice{
			Price:     sp.Price,
			Source:    sp.Source,
			URL:       sp.URL,
			Validated: valid,
		})
		if valid {
			out.ValidatedPrices = append(out.ValidatedPrices, sp.Price)
			sum += sp.Price
		}
	}
	out.ValidatedCount = len(out.ValidatedPrices)
	if out.ValidatedCount > 0 {
		avg := sum / float64(out.ValidatedCount)
		out.AveragePrice = &avg
	}
	return out, nil
}
