// Package service implements the application use cases on top of the
// repository, scraper, and pricing packages. Services own business rules;
// persistence stays in repositories and HTTP concerns stay in handlers.
package service

import (
	"database/sql"
	"errors"

	"optimapricer/internal/model"
	"optimapricer/internal/pricing"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoMarketData means scraping returned nothing at all.
	ErrNoMarketData = errors.New("no market data found")
	// ErrNoValidPrices means everything scraped failed validation.
	ErrNoValidPrices = errors.New("no valid market data found")
)

// mapNoRows translates the repository's missing-row error to ErrNotFound.
func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func toPricingProduct(p *model.Product) pricing.Product {
	return pricing.Product{
		ID:              p.ID,
		Name:            p.Name,
		SKU:             p.SKU,
		Category:        p.Category,
		CostPrice:       p.CostPrice,
		CurrentPrice:    p.CurrentPrice,
		CompetitorPrice: p.CompetitorPrice,
		SalesVelocity:   p.SalesVelocity,
	}
}
