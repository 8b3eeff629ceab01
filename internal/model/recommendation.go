package model

import "time"

// Recommendation statuses.
const (
	RecommendationPending  = "pending"
	RecommendationApplied  = "applied"
	RecommendationRejected = "rejected"
)

// Risk levels attached to a recommendation.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Recommendation is a generated price-change suggestion for a product.
// A product has at most one pending recommendation; fresh market data
// updates it in place instead of stacking duplicates.
type Recommendation struct {
	ID                   string    `json:"id"`
	ProductID            string    `json:"productId"`
	SuggestedPrice       float64   `json:"suggestedPrice"`
	PredictedMargin      float64   `json:"predictedMargin"`
	ConfidenceScore      int       `json:"confidenceScore"`
	Rationale            string    `json:"rationale"`
	Status               string    `json:"status"`
	RiskLevel            string    `json:"riskLevel"`
	CompetitorMinPrice   *float64  `json:"competitorMinPrice"`
	CompetitorMaxPrice   *float64  `json:"competitorMaxPrice"`
	MarketPosition       *string   `json:"marketPosition"`
	Strategy             *string   `json:"strategy"`
	ImplementationTiming *string   `json:"implementationTiming"`
	RevenueImpact        *float64  `json:"revenueImpact"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`

	Product            *Product `json:"product,omitempty"`
	MarketAveragePrice *float64 `json:"marketAveragePrice,omitempty"`
	MarketPriceCount   int      `json:"marketPriceCount"`
}
