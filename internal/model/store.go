package model

import "time"

// Store platforms accepted by the API.
const (
	PlatformShopify = "shopify"
	PlatformAmazon  = "amazon"
	PlatformEbay    = "ebay"
	PlatformEtsy    = "etsy"
	PlatformOther   = "other"
)

// StoreCounts carries derived child counts under the `_count` JSON key.
type StoreCounts struct {
	Products int `json:"products"`
}

// Store is a merchant's connected sales channel.
type Store struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Name      string       `json:"name"`
	Platform  string       `json:"platform"`
	APIKey    *string      `json:"apiKey"`
	APISecret *string      `json:"apiSecret"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Count     *StoreCounts `json:"_count,omitempty"`
}
