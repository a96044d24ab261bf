// Package analytics derives aggregate spending figures from the purchase
// schema and classifies them.
//
// The package is organized into focused modules:
//   - aggregator.go: range/bucket aggregation over lists and line items
//   - comparison.go: period-over-period delta and trend
//   - trend.go: least-squares trend classification over a series
//   - anomaly.go: statistical outlier detection over daily totals
//   - score.go: qualitative day-performance scoring
//
// Everything here is read-only. Query errors are returned to the caller; a
// silently wrong chart is worse than a visible failure.
package analytics

import (
	"time"

	"panier/internal/timeframe"
)

// Trend is the qualitative direction of change.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Bucket is one entry of a zero-filled distribution series.
type Bucket struct {
	Start  time.Time `json:"start"`
	Label  string    `json:"label"`
	Amount float64   `json:"amount"`
	Count  int       `json:"count"`
}

// ProductBreakdown aggregates one product's share of a period.
// AvgUnitPrice is recomputed as Amount/Quantity rather than averaged per
// row, so it stays correct when quantities differ between purchases.
type ProductBreakdown struct {
	ProductID    uint    `json:"product_id"`
	Label        string  `json:"label"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	Amount       float64 `json:"amount"`
	Count        int     `json:"count"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// Summary is the aggregate result for one range at one granularity.
type Summary struct {
	Range       timeframe.Range       `json:"range"`
	Granularity timeframe.Granularity `json:"granularity"`
	Total       float64               `json:"total"`
	Count       int                   `json:"count"`
	PerProduct  []ProductBreakdown    `json:"per_product"`
	Buckets     []Bucket              `json:"buckets"`
}

// DailyTotal is one day's spending, input to anomaly detection and scoring.
type DailyTotal struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Amount float64 `json:"amount"`
}
