package model

import "time"

// MarketData is a single scraped competitor price observation. SnapshotKey
// points at the archived raw HTML of the scan session in object storage,
// when archiving succeeded.
type MarketData struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Source      string    `json:"source"`
	Price       float64   `json:"price"`
	URL         *string   `json:"url"`
	SnapshotKey *string   `json:"snapshotKey,omitempty"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}
