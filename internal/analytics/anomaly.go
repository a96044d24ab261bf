package analytics

import (
	"math"
)

// AnomalySigmaFactor is the number of standard deviations a day's total
// must deviate from the range mean to be flagged.
const AnomalySigmaFactor = 2.0

// minAnomalyPoints is the smallest series the detector will judge; with
// fewer points the mean is meaningless.
const minAnomalyPoints = 3

// FindAnomalies returns the dates whose totals deviate from the series'
// population mean by at least AnomalySigmaFactor standard deviations.
// Fewer than three points, or a flat series, yields no anomalies.
func FindAnomalies(daily []DailyTotal) []string {
	if len(daily) < minAnomalyPoints {
		return nil
	}

	var sum float64
	for _, d := range daily {
		sum += d.Amount
	}
	mean := sum / float64(len(daily))

	var sumSquares float64
	for _, d := range daily {
		dev := d.Amount - mean
		sumSquares += dev * dev
	}
	stddev := math.Sqrt(sumSquares / float64(len(daily)))
	if stddev == 0 {
		return nil
	}

	threshold := AnomalySigmaFactor * stddev

	var anomalies []string
	for _, d := range daily {
		if math.Abs(d.Amount-mean) >= threshold {
			anomalies = append(anomalies, d.Date)
		}
	}
	return anomalies
}
