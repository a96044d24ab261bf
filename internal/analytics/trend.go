package analytics

import (
	"math"
)

// StableSlopeThreshold is the absolute OLS slope, in currency units per
// period, under which a series is classified stable. Deliberately separate
// from StableBandPercent in comparison.go; see the note there.
const StableSlopeThreshold = 50.0

// ClassifyTrend fits an ordinary least-squares slope of the series against
// its index 0..n-1 and classifies the direction. Series with fewer than two
// points are stable by definition.
func ClassifyTrend(series []float64) Trend {
	if len(series) < 2 {
		return TrendStable
	}

	slope := olsSlope(series)
	if math.Abs(slope) < StableSlopeThreshold {
		return TrendStable
	}
	if slope > 0 {
		return TrendUp
	}
	return TrendDown
}

// olsSlope computes the least-squares slope of y against x = 0..n-1:
// slope = (n*Σxy - Σx*Σy) / (n*Σx² - (Σx)²).
func olsSlope(series []float64) float64 {
	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(series))

	for i, y := range series {
		x := float64(i)

		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}
