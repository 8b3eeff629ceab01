package pricing

import "math"

// luxuryCategories get a lower base elasticity: buyers are less price
// sensitive there.
var luxuryCategories = map[string]bool{
	"Shapewear":  true,
	"Loungewear": true,
}

const curvePoints = 20

// CurvePoint is one sample on the price/demand curve with derived revenue
// and profit at that price.
type CurvePoint struct {
	Price        float64 `json:"price"`
	Demand       float64 `json:"demand"`
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profitMargin"`
}

// ElasticityReport is the full demand analysis for a recommendation: the
// sampled curve, demand/revenue/profit at the current and suggested prices,
// and the profit-maximizing price.
type ElasticityReport struct {
	Curve []CurvePoint `json:"curve"`

	CurrentPrice   float64 `json:"currentPrice"`
	SuggestedPrice float64 `json:"suggestedPrice"`
	CostPrice      float64 `json:"costPrice"`
	BaseDemand     float64 `json:"baseDemand"`

	CurrentDemand       float64 `json:"currentDemand"`
	SuggestedDemand     float64 `json:"suggestedDemand"`
	DemandChange        float64 `json:"demandChange"`
	DemandChangePercent float64 `json:"demandChangePercent"`

	CurrentRevenue       float64 `json:"currentRevenue"`
	SuggestedRevenue     float64 `json:"suggestedRevenue"`
	RevenueChange        float64 `json:"revenueChange"`
	RevenueChangePercent float64 `json:"revenueChangePercent"`

	CurrentProfit       float64 `json:"currentProfit"`
	SuggestedProfit     float64 `json:"suggestedProfit"`
	ProfitChange        float64 `json:"profitChange"`
	ProfitChangePercent float64 `json:"profitChangePercent"`

	OptimalPrice  float64 `json:"optimalPrice"`
	OptimalDemand float64 `json:"optimalDemand"`
	OptimalProfit float64 `json:"optimalProfit"`
}

// EstimateElasticity returns a heuristic price elasticity for the product,
// clamped to [0.5, 3.0].
func EstimateElasticity(p Product, currentMargin float64) float64 {
	elasticity := 1.5

	if luxuryCategories[p.Category] {
		elasticity -= 0.3
	}

	if currentMargin > 50 {
		elasticity -= 0.5
	} else if currentMargin < 30 {
		elasticity += 0.3
	}

	if p.SalesVelocity > 50 {
		elasticity += 0.2
	}

	return math.Max(0.5, math.Min(3.0, elasticity))
}

// demandAt applies the constant-elasticity demand model
// Q = Q0 * (P0/P)^e, clamped to [0, 3*Q0].
func demandAt(price, currentPrice, baseDemand, elasticity float64) float64 {
	ratio := 1.0
	if price > 0 {
		ratio = currentPrice / price
	}
	demand := baseDemand * math.Pow(ratio, elasticity)
	return math.Max(0, math.Min(demand, baseDemand*3))
}

// BuildElasticityReport samples the demand curve around the current price
// and evaluates the suggested price against it. baseDemand is the demand at
// the current price (sales velocity, or 100 as a percentage baseline).
func BuildElasticityReport(p Product, currentPrice, suggestedPrice, baseDemand float64) ElasticityReport {
	currentMargin := 0.0
	if currentPrice > 0 {
		currentMargin = (currentPrice - p.CostPrice) / currentPrice * 100
	}
	elasticity := EstimateElasticity(p, currentMargin)

	// Sample within reasonable bounds around the current price.
	minPrice := math.Max(p.CostPrice*0.8, currentPrice*0.5)
	maxPrice := currentPrice * 1.5

	curve := make([]CurvePoint, 0, curvePoints)
	for i := 0; i < curvePoints; i++ {
		price := minPrice + (maxPrice-minPrice)*float64(i)/float64(curvePoints-1)
		demand := demandAt(price, currentPrice, baseDemand, elasticity)

		price = round2(price)
		demand = round1(demand)

		profitMargin := 0.0
		if price > 0 {
			profitMargin = (price - p.CostPrice) / price * 100
		}
		curve = append(curve, CurvePoint{
			Price:        price,
			Demand:       demand,
			Revenue:      round2(demand * price),
			Profit:       round2(demand * (price - p.CostPrice)),
			ProfitMargin: round1(profitMargin),
		})
	}

	currentDemand := baseDemand
	suggestedDemand := demandAt(suggestedPrice, currentPrice, baseDemand, elasticity)

	currentRevenue := currentDemand * currentPrice
	suggestedRevenue := suggestedDemand * suggestedPrice
	currentProfit := currentDemand * (currentPrice - p.CostPrice)
	suggestedProfit := suggestedDemand * (suggestedPrice - p.CostPrice)

	report := ElasticityReport{
		Curve:          curve,
		CurrentPrice:   currentPrice,
		SuggestedPrice: suggestedPrice,
		CostPrice:      p.CostPrice,
		BaseDemand:     baseDemand,

		CurrentDemand:   round1(currentDemand),
		SuggestedDemand: round1(suggestedDemand),
		DemandChange:    round1(suggestedDemand - currentDemand),

		CurrentRevenue:   round2(currentRevenue),
		SuggestedRevenue: round2(suggestedRevenue),
		RevenueChange:    round2(suggestedRevenue - currentRevenue),

		CurrentProfit:   round2(currentProfit),
		SuggestedProfit: round2(suggestedProfit),
		ProfitChange:    round2(suggestedProfit - currentProfit),
	}
	if currentDemand > 0 {
		report.DemandChangePercent = round1((suggestedDemand - currentDemand) / currentDemand * 100)
	}
	if currentRevenue > 0 {
		report.RevenueChangePercent = round1((suggestedRevenue - currentRevenue) / currentRevenue * 100)
	}
	if currentProfit > 0 {
		report.ProfitChangePercent = round1((suggestedProfit - currentProfit) / currentProfit * 100)
	}

	report.OptimalPrice, report.OptimalDemand, report.OptimalProfit =
		optimalPrice(p, currentPrice, baseDemand, elasticity, curve)

	return report
}

// optimalPrice solves for the profit-maximizing price under the
// constant-elasticity model. With Profit(P) = Q0*(P0/P)^e * (P - C), setting
// the derivative to zero gives P* = C*e/(e-1), valid for e > 1. The result
// is clamped to [1.1*cost, 2*current] and checked against the sampled curve;
// for inelastic demand the curve maximum is used directly.
func optimalPrice(p Product, currentPrice, baseDemand, elasticity float64, curve []CurvePoint) (price, demand, profit float64) {
	discretePrice, discreteDemand, discreteProfit := curveMax(curve)

	if elasticity <= 1.0 || p.CostPrice <= 0 {
		return discretePrice, discreteDemand, discreteProfit
	}

	analytic := p.CostPrice * elasticity / (elasticity - 1.0)
	analytic = math.Max(p.CostPrice*1.1, analytic)
	analytic = math.Min(analytic, currentPrice*2.0)

	analyticDemand := demandAt(analytic, currentPrice, baseDemand, elasticity)
	analyticProfit := analyticDemand * (analytic - p.CostPrice)

	if analyticProfit >= discreteProfit {
		return round2(analytic), round1(analyticDemand), round2(analyticProfit)
	}
	return discretePrice, discreteDemand, discreteProfit
}

func curveMax(curve []CurvePoint) (price, demand, profit float64) {
	best := curve[0]
	for _, pt := range curve[1:] {
		if pt.Profit > best.Profit {
			best = pt
		}
	}
	return best.Price, best.Demand, best.Profit
}
