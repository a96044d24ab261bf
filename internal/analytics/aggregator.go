package analytics

import (
	"fmt"

	"gorm.io/gorm"

	"panier/internal/lists"
	"panier/internal/timeframe"
)

// Aggregate computes the spending summary for a range at the given
// granularity: total amount, item count, per-product breakdown, and a
// zero-filled bucket series. Line items are attributed to the date of
// their owning list; boundaries are inclusive.
func Aggregate(db *gorm.DB, r timeframe.Range, g timeframe.Granularity) (Summary, error) {
	summary := Summary{Range: r, Granularity: g}

	from := r.From.UTC().Format(lists.DateLayout)
	to := r.To.UTC().Format(lists.DateLayout)

	var totals struct {
		Total float64
		Count int
	}

	totalsQuery := `
    SELECT
        COALESCE(SUM(li.line_total), 0) as total,
        COUNT(li.id) as count
    FROM LigneAchat li
    JOIN ListeAchat l ON l.id = li.liste_id
    WHERE datetime(l.date) BETWEEN datetime(?) AND datetime(?)
    `

	if err := db.Raw(totalsQuery, from, to).Scan(&totals).Error; err != nil {
		return Summary{}, fmt.Errorf("error aggregating period totals: %w", err)
	}
	summary.Total = totals.Total
	summary.Count = totals.Count

	perProduct, err := aggregatePerProduct(db, from, to)
	if err != nil {
		return Summary{}, err
	}
	summary.PerProduct = perProduct

	buckets, err := aggregateBuckets(db, r, g, from, to)
	if err != nil {
		return Summary{}, err
	}
	summary.Buckets = buckets

	return summary, nil
}

func aggregatePerProduct(db *gorm.DB, from, to string) ([]ProductBreakdown, error) {
	var rawResults []struct {
		ProductID uint
		Label     string
		Unit      string
		Quantity  float64
		Amount    float64
		Count     int
	}

	query := `
    SELECT
        p.id as product_id,
        p.label as label,
        p.unit as unit,
        SUM(li.quantity) as quantity,
        SUM(li.line_total) as amount,
        COUNT(li.id) as count
    FROM LigneAchat li
    JOIN ListeAchat l ON l.id = li.liste_id
    JOIN Produit p ON p.id = li.produit_id
    WHERE datetime(l.date) BETWEEN datetime(?) AND datetime(?)
    GROUP BY p.id, p.label, p.unit
    ORDER BY amount DESC
    `

	if err := db.Raw(query, from, to).Scan(&rawResults).Error; err != nil {
		return nil, fmt.Errorf("error aggregating per-product breakdown: %w", err)
	}

	results := make([]ProductBreakdown, len(rawResults))
	for i, r := range rawResults {
		breakdown := ProductBreakdown{
			ProductID: r.ProductID,
			Label:     r.Label,
			Unit:      r.Unit,
			Quantity:  r.Quantity,
			Amount:    r.Amount,
			Count:     r.Count,
		}
		if r.Quantity > 0 {
			breakdown.AvgUnitPrice = r.Amount / r.Quantity
		}
		results[i] = breakdown
	}

	return results, nil
}

func aggregateBuckets(db *gorm.DB, r timeframe.Range, g timeframe.Granularity, from, to string) ([]Bucket, error) {
	groupExpr, err := timeframe.SQLiteGroupExpr(g)
	if err != nil {
		return nil, err
	}

	var rawResults []struct {
		Bucket string
		Amount float64
		Count  int
	}

	query := fmt.Sprintf(`
    SELECT
        %s as bucket,
        COALESCE(SUM(li.line_total), 0) as amount,
        COUNT(li.id) as count
    FROM LigneAchat li
    JOIN ListeAchat l ON l.id = li.liste_id
    WHERE datetime(l.date) BETWEEN datetime(?) AND datetime(?)
    GROUP BY bucket
    `, groupExpr)

	if err := db.Raw(query, from, to).Scan(&rawResults).Error; err != nil {
		return nil, fmt.Errorf("error aggregating %s buckets: %w", g, err)
	}

	grouped := make(map[string]struct {
		amount float64
		count  int
	}, len(rawResults))
	for _, row := range rawResults {
		grouped[row.Bucket] = struct {
			amount float64
			count  int
		}{row.Amount, row.Count}
	}

	// Zero-fill: every bucket in the range appears, even when empty.
	points := timeframe.BucketPoints(r, g)
	buckets := make([]Bucket, len(points))
	for i, start := range points {
		key := timeframe.BucketKey(start, g)
		bucket := Bucket{Start: start, Label: key}
		if row, ok := grouped[key]; ok {
			bucket.Amount = row.amount
			bucket.Count = row.count
		}
		buckets[i] = bucket
	}

	return buckets, nil
}

// DailyTotals returns the zero-filled per-day spending series for a range,
// the input shape expected by FindAnomalies and ScoreDay baselines.
func DailyTotals(db *gorm.DB, r timeframe.Range) ([]DailyTotal, error) {
	buckets, err := aggregateBuckets(db, r, timeframe.GranularityDay,
		r.From.UTC().Format(lists.DateLayout), r.To.UTC().Format(lists.DateLayout))
	if err != nil {
		return nil, err
	}

	totals := make([]DailyTotal, len(buckets))
	for i, b := range buckets {
		totals[i] = DailyTotal{Date: b.Label, Amount: b.Amount}
	}
	return totals, nil
}
