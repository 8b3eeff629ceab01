package scraper

// majorRetailers get looser validation bounds: an observation from one of
// these is more likely a real listing than a parsing artifact.
var majorRetailers = map[string]bool{
	"amazon":    true,
	"walmart":   true,
	"target":    true,
	"bestbuy":   true,
	"homedepot": true,
	"wayfair":   true,
}

// ValidObservation reports whether a scraped price is plausible for a
// product with the given cost and current price. Major retailers pass a
// wider band than unknown sources.
func ValidObservation(price, costPrice, currentPrice float64, source string) bool {
	if price < 0.01 || price > 1_000_000 {
		return false
	}

	major := majorRetailers[source]

	if costPrice > 0 {
		minCostRatio := 0.5
		if major {
			minCostRatio = 0.4
		}
		if price < costPrice*minCostRatio {
			return false
		}
		maxCostRatio := 10.0
		if major {
			maxCostRatio = 15.0
		}
		if price > costPrice*maxCostRatio && costPrice > 100 {
			return false
		}
	}

	if currentPrice > 0 {
		lo, hi := 0.1, 5.0
		if major {
			lo, hi = 0.05, 6.0
		}
		if price < currentPrice*lo || price > currentPrice*hi {
			return false
		}
	}

	return true
}
