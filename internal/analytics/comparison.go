package analytics

import (
	"math"
)

// StableBandPercent is the half-width of the "no meaningful change" band
// for period-over-period comparisons. It is intentionally independent of
// StableSlopeThreshold in trend.go: the two classify change by different
// methods and are not calibrated against each other.
const StableBandPercent = 5.0

// Comparison holds the delta between two period totals.
type Comparison struct {
	Delta      float64 `json:"delta"`
	Percentage float64 `json:"percentage"`
	Trend      Trend   `json:"trend"`
}

// Compare computes the change from a previous period total to the current
// one. The percentage is guarded to exactly 0 when the previous total is
// not positive; the trend is still derived from the raw delta in that case,
// so a jump from 0 to 100 reads as "up" with a 0 percentage.
func Compare(current, previous float64) Comparison {
	delta := current - previous

	comparison := Comparison{Delta: delta, Trend: TrendStable}

	if previous > 0 {
		comparison.Percentage = (delta / previous) * 100
		if math.Abs(comparison.Percentage) >= StableBandPercent {
			if delta > 0 {
				comparison.Trend = TrendUp
			} else {
				comparison.Trend = TrendDown
			}
		}
		return comparison
	}

	if delta > 0 {
		comparison.Trend = TrendUp
	} else if delta < 0 {
		comparison.Trend = TrendDown
	}
	return comparison
}
