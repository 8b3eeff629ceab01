// Package pricing implements the rule-based price optimization engine.
// Everything in here is pure arithmetic over product and market inputs;
// persistence and scraping live elsewhere.
package pricing

import (
	"fmt"
	"math"
)

// Pricing strategies reported on a recommendation.
const (
	StrategyMatchMarket = "Match Market"
	StrategyNoData      = "No Data"
)

// minMarginRatio is the floor applied to suggested prices: cost plus 20%.
const minMarginRatio = 1.2

// Product carries the pricing-relevant fields of a catalog product.
type Product struct {
	ID              string
	Name            string
	SKU             string
	Category        string
	CostPrice       float64
	CurrentPrice    float64
	CompetitorPrice *float64
	SalesVelocity   float64 // units per week
}

// Result is the outcome of a price optimization run.
type Result struct {
	SuggestedPrice       float64
	PredictedMargin      float64
	ConfidenceScore      int
	Rationale            string
	RiskLevel            string
	Strategy             string
	MarketPosition       string
	ImplementationTiming string
	RevenueImpact        float64
	CompetitorMinPrice   float64
	CompetitorMaxPrice   float64
}

// Optimize computes a suggested price from the current price, cost, and the
// competitor prices observed in the market.
//
// With market data the suggestion tracks the competitor average; without it
// the current price is kept at reduced confidence. A 20% margin floor is
// enforced: small shortfalls are adjusted up, while market prices far below
// cost are kept but flagged high risk so the merchant sees the real market.
func Optimize(p Product, competitorPrices []float64) Result {
	currentPrice := p.CurrentPrice
	costPrice := p.CostPrice

	currentMargin := 0.0
	if currentPrice > 0 {
		currentMargin = (currentPrice - costPrice) / currentPrice * 100
	}

	// Drop prices too far from the current price to be the same product.
	// If every price is implausible, fall back to the raw set.
	if len(competitorPrices) > 0 && currentPrice > 0 {
		filtered := filterPlausible(competitorPrices, currentPrice)
		if len(filtered) > 0 {
			competitorPrices = filtered
		}
	}

	avgCompetitor := currentPrice
	minCompetitor := currentPrice * 0.9
	maxCompetitor := currentPrice * 1.15
	if len(competitorPrices) > 0 {
		avgCompetitor = mean(competitorPrices)
		minCompetitor = minOf(competitorPrices)
		maxCompetitor = maxOf(competitorPrices)
	}

	var (
		suggested      float64
		strategy       string
		rationale      string
		confidence     int
		riskLevel      string
		marketPosition string
	)
	if len(competitorPrices) > 0 {
		suggested = avgCompetitor
		strategy = StrategyMatchMarket
		rationale = fmt.Sprintf(
			"Price matched to market average from %d scraped sources. Aligning with current market conditions.",
			len(competitorPrices))
		confidence = 85
		riskLevel = "low"
		marketPosition = "Competitive"
	} else {
		suggested = currentPrice
		strategy = StrategyNoData
		rationale = "No recent market data available. Using current price."
		confidence = 50
		riskLevel = "medium"
		marketPosition = "Unknown"
	}

	// Margin floor. Adjust only when the market is within 10% of cost;
	// otherwise keep the market price and flag it.
	minPrice := costPrice * minMarginRatio
	if suggested < minPrice {
		if suggested >= costPrice*1.1 {
			suggested = minPrice
			rationale += " Adjusted to maintain minimum 20% margin."
			riskLevel = "medium"
		} else {
			rationale += " WARNING: Market price is below recommended minimum margin. Consider reviewing cost structure."
			riskLevel = "high"
		}
	}

	predictedMargin := 0.0
	if suggested > 0 {
		predictedMargin = (suggested - costPrice) / suggested * 100
	}

	// Weekly velocity to a monthly revenue estimate.
	priceChange := suggested - currentPrice
	revenueImpact := p.SalesVelocity * priceChange * 4

	var timing string
	switch {
	case riskLevel == "high" || math.Abs(priceChange) > currentPrice*0.1:
		timing = "Phased - Monitor closely"
	case priceChange > 0 && currentMargin < 30:
		timing = "Immediate - High opportunity"
	default:
		timing = "Immediate"
	}

	return Result{
		SuggestedPrice:       round2(suggested),
		PredictedMargin:      round1(predictedMargin),
		ConfidenceScore:      confidence,
		Rationale:            rationale,
		RiskLevel:            riskLevel,
		Strategy:             strategy,
		MarketPosition:       marketPosition,
		ImplementationTiming: timing,
		RevenueImpact:        math.Round(revenueImpact),
		CompetitorMinPrice:   round2(minCompetitor),
		CompetitorMaxPrice:   round2(maxCompetitor),
	}
}

// filterPlausible keeps prices within [0.1x, 5x] of the current price.
func filterPlausible(prices []float64, currentPrice float64) []float64 {
	minReasonable := currentPrice * 0.1
	maxReasonable := currentPrice * 5.0

	out := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p >= minReasonable && p <= maxReasonable {
			out = append(out, p)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
