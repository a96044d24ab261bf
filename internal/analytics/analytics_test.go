// Package analytics_test contains tests for the pure analytics engines.
package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panier/internal/analytics"
)

func TestCompare(t *testing.T) {
	testCases := []struct {
		name      string
		current   float64
		previous  float64
		wantDelta float64
		wantPct   float64
		wantTrend analytics.Trend
	}{
		{
			name:    "clear increase",
			current: 150, previous: 100,
			wantDelta: 50, wantPct: 50, wantTrend: analytics.TrendUp,
		},
		{
			name:    "clear decrease",
			current: 50, previous: 100,
			wantDelta: -50, wantPct: -50, wantTrend: analytics.TrendDown,
		},
		{
			name:    "inside the stable band",
			current: 103, previous: 100,
			wantDelta: 3, wantPct: 3, wantTrend: analytics.TrendStable,
		},
		{
			name:    "exactly on the band edge counts as movement",
			current: 105, previous: 100,
			wantDelta: 5, wantPct: 5, wantTrend: analytics.TrendUp,
		},
		{
			name:    "previous zero guards the percentage but not the trend",
			current: 100, previous: 0,
			wantDelta: 100, wantPct: 0, wantTrend: analytics.TrendUp,
		},
		{
			name:    "both zero is stable",
			current: 0, previous: 0,
			wantDelta: 0, wantPct: 0, wantTrend: analytics.TrendStable,
		},
		{
			name:    "drop to zero",
			current: 0, previous: 80,
			wantDelta: -80, wantPct: -100, wantTrend: analytics.TrendDown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := analytics.Compare(tc.current, tc.previous)
			assert.InDelta(t, tc.wantDelta, got.Delta, 1e-9)
			assert.InDelta(t, tc.wantPct, got.Percentage, 1e-9)
			assert.Equal(t, tc.wantTrend, got.Trend)
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	testCases := []struct {
		name     string
		series   []float64
		expected analytics.Trend
	}{
		{name: "empty series is stable", series: nil, expected: analytics.TrendStable},
		{name: "single point is stable", series: []float64{500}, expected: analytics.TrendStable},
		{name: "flat series is stable", series: []float64{100, 100, 100, 100}, expected: analytics.TrendStable},
		{name: "gentle drift stays stable", series: []float64{100, 110, 120, 130}, expected: analytics.TrendStable},
		{name: "steep climb is up", series: []float64{100, 200, 300, 400}, expected: analytics.TrendUp},
		{name: "steep fall is down", series: []float64{400, 300, 200, 100}, expected: analytics.TrendDown},
		{name: "noisy but rising", series: []float64{100, 350, 200, 500, 400, 700}, expected: analytics.TrendUp},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, analytics.ClassifyTrend(tc.series))
		})
	}
}

func TestFindAnomalies(t *testing.T) {
	t.Run("single spike is flagged", func(t *testing.T) {
		daily := []analytics.DailyTotal{
			{Date: "2026-03-01", Amount: 100},
			{Date: "2026-03-02", Amount: 100},
			{Date: "2026-03-03", Amount: 100},
			{Date: "2026-03-04", Amount: 100},
			{Date: "2026-03-05", Amount: 5000},
		}

		anomalies := analytics.FindAnomalies(daily)
		require.Len(t, anomalies, 1)
		assert.Equal(t, "2026-03-05", anomalies[0])
	})

	t.Run("too few points yields nothing", func(t *testing.T) {
		daily := []analytics.DailyTotal{
			{Date: "2026-03-01", Amount: 100},
			{Date: "2026-03-02", Amount: 9000},
		}
		assert.Empty(t, analytics.FindAnomalies(daily))
	})

	t.Run("flat series yields nothing", func(t *testing.T) {
		daily := []analytics.DailyTotal{
			{Date: "2026-03-01", Amount: 250},
			{Date: "2026-03-02", Amount: 250},
			{Date: "2026-03-03", Amount: 250},
		}
		assert.Empty(t, analytics.FindAnomalies(daily))
	})

	t.Run("ordinary variation is not flagged", func(t *testing.T) {
		daily := []analytics.DailyTotal{
			{Date: "2026-03-01", Amount: 90},
			{Date: "2026-03-02", Amount: 110},
			{Date: "2026-03-03", Amount: 95},
			{Date: "2026-03-04", Amount: 105},
			{Date: "2026-03-05", Amount: 100},
		}
		assert.Empty(t, analytics.FindAnomalies(daily))
	})
}

func TestScoreDay(t *testing.T) {
	testCases := []struct {
		name      string
		amount    float64
		average   float64
		wantLabel string
		wantScore int
	}{
		{name: "well under the average", amount: 300, average: 1000, wantLabel: analytics.ScoreExcellent, wantScore: 100},
		{name: "slightly under clamps to 100", amount: 850, average: 1000, wantLabel: analytics.ScoreGood, wantScore: 100},
		{name: "right at the average", amount: 1000, average: 1000, wantLabel: analytics.ScoreModerate, wantScore: 100},
		{name: "noticeably over", amount: 1500, average: 1000, wantLabel: analytics.ScoreHigh, wantScore: 67},
		{name: "way over", amount: 2000, average: 1000, wantLabel: analytics.ScoreVeryHigh, wantScore: 50},
		{name: "zero average pins ratio to one", amount: 500, average: 0, wantLabel: analytics.ScoreModerate, wantScore: 100},
		{name: "zero spend day", amount: 0, average: 1000, wantLabel: analytics.ScoreExcellent, wantScore: 100},
		{name: "refund day clamps to the bottom", amount: -50, average: 1000, wantLabel: analytics.ScoreExcellent, wantScore: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := analytics.ScoreDay(tc.amount, tc.average)
			assert.Equal(t, tc.wantLabel, got.Label)
			assert.Equal(t, tc.wantScore, got.Score)
		})
	}
}
