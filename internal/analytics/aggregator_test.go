package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panier/internal/analytics"
	"panier/internal/testsupport"
	"panier/internal/timeframe"
)

func TestAggregateHourlyDayIsZeroFilled(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")

	morning := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)

	morningList := testsupport.CreateTestList(t, db, "Marché du matin", morning)
	eveningList := testsupport.CreateTestList(t, db, "Courses du soir", evening)
	testsupport.CreateTestLineItem(t, db, morningList.ID, rice.ID, 2, 10)
	testsupport.CreateTestLineItem(t, db, eveningList.ID, rice.ID, 1, 15)

	day := timeframe.Day(morning)
	summary, err := analytics.Aggregate(db, day, timeframe.GranularityHour)
	require.NoError(t, err)

	require.Len(t, summary.Buckets, 24)
	assert.InDelta(t, 35, summary.Total, 1e-6)
	assert.Equal(t, 2, summary.Count)

	for i, bucket := range summary.Buckets {
		switch i {
		case 9:
			assert.InDelta(t, 20, bucket.Amount, 1e-6)
			assert.Equal(t, 1, bucket.Count)
		case 19:
			assert.InDelta(t, 15, bucket.Amount, 1e-6)
			assert.Equal(t, 1, bucket.Count)
		default:
			assert.Zero(t, bucket.Amount, "hour %d should be empty", i)
			assert.Zero(t, bucket.Count, "hour %d should be empty", i)
		}
	}
}

func TestAggregatePerProductBreakdown(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")
	oil := testsupport.CreateTestProduct(t, db, "Huile", "L")

	at := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	list := testsupport.CreateTestList(t, db, "Semaine", at)
	testsupport.CreateTestLineItem(t, db, list.ID, rice.ID, 5, 12)  // 60
	testsupport.CreateTestLineItem(t, db, list.ID, rice.ID, 3, 10)  // 30
	testsupport.CreateTestLineItem(t, db, list.ID, oil.ID, 2, 8.50) // 17

	week := timeframe.Week(at)
	summary, err := analytics.Aggregate(db, week, timeframe.GranularityDay)
	require.NoError(t, err)

	assert.InDelta(t, 107, summary.Total, 1e-6)
	assert.Equal(t, 3, summary.Count)

	require.Len(t, summary.PerProduct, 2)

	// Ordered by amount descending.
	assert.Equal(t, "Riz", summary.PerProduct[0].Label)
	assert.InDelta(t, 90, summary.PerProduct[0].Amount, 1e-6)
	assert.InDelta(t, 8, summary.PerProduct[0].Quantity, 1e-6)
	assert.Equal(t, 2, summary.PerProduct[0].Count)
	assert.InDelta(t, 90.0/8.0, summary.PerProduct[0].AvgUnitPrice, 1e-6)

	assert.Equal(t, "Huile", summary.PerProduct[1].Label)
	assert.InDelta(t, 17, summary.PerProduct[1].Amount, 1e-6)
	assert.Equal(t, "L", summary.PerProduct[1].Unit)
}

func TestAggregateBoundariesAreInclusive(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")

	day := timeframe.Day(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	first := testsupport.CreateTestList(t, db, "Minuit", day.From)
	last := testsupport.CreateTestList(t, db, "Fin de journée", day.To)
	after := testsupport.CreateTestList(t, db, "Lendemain", day.To.Add(time.Second))
	testsupport.CreateTestLineItem(t, db, first.ID, rice.ID, 1, 10)
	testsupport.CreateTestLineItem(t, db, last.ID, rice.ID, 1, 20)
	testsupport.CreateTestLineItem(t, db, after.ID, rice.ID, 1, 40)

	summary, err := analytics.Aggregate(db, day, timeframe.GranularityHour)
	require.NoError(t, err)

	assert.InDelta(t, 30, summary.Total, 1e-6)
	assert.Equal(t, 2, summary.Count)
}

func TestDailyTotalsZeroFillsTheRange(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")

	at := time.Date(2026, 3, 18, 11, 0, 0, 0, time.UTC)
	list := testsupport.CreateTestList(t, db, "Mercredi", at)
	testsupport.CreateTestLineItem(t, db, list.ID, rice.ID, 4, 25)

	week := timeframe.Week(at)
	daily, err := analytics.DailyTotals(db, week)
	require.NoError(t, err)

	require.Len(t, daily, 7)
	assert.Equal(t, "2026-03-16", daily[0].Date)

	var total float64
	for _, d := range daily {
		total += d.Amount
	}
	assert.InDelta(t, 100, total, 1e-6)
	assert.InDelta(t, 100, daily[2].Amount, 1e-6) // Wednesday
}

func TestAggregateEmptyRange(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	day := timeframe.Day(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	summary, err := analytics.Aggregate(db, day, timeframe.GranularityHour)
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Count)
	assert.Empty(t, summary.PerProduct)
	require.Len(t, summary.Buckets, 24)
}
