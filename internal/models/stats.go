package models

import "sort"

type MarketStats struct {
	Count           int     `json:"count"`
	MedianPrice     float64 `json:"median_price"`
	MinPrice        float64 `json:"min_price"`
	MaxPrice        float64 `json:"max_price"`
	AvgPricePerArea float64 `json:"avg_price_per_area"`
}

// ComputeMarketStats summarizes the prices of a listing set. The median is the
// upper middle element for even counts. Listings without area are left out of
// the price per m² average.
func ComputeMarketStats(listings []Listing) MarketStats {
	var stats MarketStats
	if len(listings) == 0 {
		return stats
	}

	prices := make([]float64, len(listings))
	var perAreaTotal float64
	var perAreaCount int
	for i, l := range listings {
		prices[i] = l.Price
		if ppa := l.PricePerArea(); ppa > 0 {
			perAreaTotal += ppa
			perAreaCount++
		}
	}
	sort.Float64s(prices)

	stats.Count = len(prices)
	stats.MedianPrice = prices[len(prices)/2]
	stats.MinPrice = prices[0]
	stats.MaxPrice = prices[len(prices)-1]
	if perAreaCount > 0 {
		stats.AvgPricePerArea = perAreaTotal / float64(perAreaCount)
	}
	return stats
}
