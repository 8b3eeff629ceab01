package model

import "time"

// Product is a priced item belonging to a store. CompetitorPrice is the
// rolling average of validated scraped prices; SalesVelocity is units sold
// per week. Store and LastScannedAt are derived fields populated by list and
// read queries.
type Product struct {
	ID              string     `json:"id"`
	StoreID         string     `json:"storeId"`
	Name            string     `json:"name"`
	SKU             string     `json:"sku"`
	Category        string     `json:"category"`
	CostPrice       float64    `json:"costPrice"`
	CurrentPrice    float64    `json:"currentPrice"`
	CompetitorPrice *float64   `json:"competitorPrice"`
	SalesVelocity   float64    `json:"salesVelocity"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Store           *Store     `json:"store,omitempty"`
	LastScannedAt   *time.Time `json:"lastScannedAt,omitempty"`
}
