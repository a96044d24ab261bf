// Package timeframe provides calendar bucketing for purchase analytics.
//
// Weeks start on Monday; months and years start at their calendar boundary.
// Bucket series are always complete: every bucket between a range's start
// and end appears, so downstream charts never receive a sparse series.
package timeframe

import (
	"fmt"
	"time"
)

// Granularity is the bucket size of an aggregate series.
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Range represents a [From, To] date interval, boundaries inclusive.
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange builds a validated range.
func NewRange(from, to time.Time) (Range, error) {
	if from.After(to) {
		return Range{}, fmt.Errorf("range start must not be after end")
	}
	return Range{From: from, To: to}, nil
}

// Day returns the full-day range containing t (UTC).
func Day(t time.Time) Range {
	start := TruncateToBucket(t, GranularityDay)
	return Range{From: start, To: start.AddDate(0, 0, 1).Add(-time.Second)}
}

// Week returns the Monday-to-Sunday week range containing t (UTC).
func Week(t time.Time) Range {
	start := TruncateToBucket(t, GranularityWeek)
	return Range{From: start, To: start.AddDate(0, 0, 7).Add(-time.Second)}
}

// Month returns the calendar month range containing t (UTC).
func Month(t time.Time) Range {
	start := TruncateToBucket(t, GranularityMonth)
	return Range{From: start, To: start.AddDate(0, 1, 0).Add(-time.Second)}
}

// Duration returns the length of the range.
func (r Range) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// Previous returns the adjacent range of equal length immediately before
// this one, for period-over-period comparisons.
func (r Range) Previous() Range {
	d := r.To.Sub(r.From)
	return Range{
		From: r.From.Add(-d - time.Second),
		To:   r.From.Add(-time.Second),
	}
}

// GranularityForRange picks a sensible default bucket size for a range.
func GranularityForRange(r Range) Granularity {
	days := r.To.Sub(r.From).Hours() / 24

	switch {
	case days >= 3*30:
		return GranularityMonth
	case days >= 30:
		return GranularityWeek
	case days >= 2:
		return GranularityDay
	default:
		return GranularityHour
	}
}

// TruncateToBucket truncates a time to its bucket boundary in UTC.
// Week buckets truncate to the preceding (or same) Monday.
func TruncateToBucket(t time.Time, g Granularity) time.Time {
	utc := t.UTC()
	year, month, day := utc.Year(), utc.Month(), utc.Day()

	switch g {
	case GranularityMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	case GranularityWeek:
		weekday := int(utc.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		daysToSubtract := weekday - 1
		return time.Date(year, month, day-daysToSubtract, 0, 0, 0, 0, time.UTC)
	case GranularityDay:
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	case GranularityHour:
		return time.Date(year, month, day, utc.Hour(), 0, 0, 0, time.UTC)
	default:
		return utc
	}
}

// next advances a bucket start to the following bucket.
func next(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityDay:
		return t.AddDate(0, 0, 1)
	case GranularityHour:
		return t.Add(time.Hour)
	default:
		return t.Add(time.Hour)
	}
}

// BucketKey formats a bucket start the way grouped SQL rows are keyed,
// so database results and reference points can be matched up.
func BucketKey(t time.Time, g Granularity) string {
	switch g {
	case GranularityMonth:
		return t.Format("2006-01")
	case GranularityWeek, GranularityDay:
		return t.Format("2006-01-02")
	case GranularityHour:
		return t.Format("2006-01-02 15")
	default:
		return t.Format("2006-01-02")
	}
}

// SQLiteGroupExpr returns the SQLite expression that buckets a stored
// ISO-8601 date string to the same keys BucketKey produces.
func SQLiteGroupExpr(g Granularity) (string, error) {
	switch g {
	case GranularityHour:
		return "strftime('%Y-%m-%d %H', datetime(l.date))", nil
	case GranularityDay:
		return "strftime('%Y-%m-%d', datetime(l.date))", nil
	case GranularityWeek:
		// Truncate to the preceding Monday.
		return "date(datetime(l.date), 'start of day', '-' || ((strftime('%w', datetime(l.date)) + 6) % 7) || ' days')", nil
	case GranularityMonth:
		return "strftime('%Y-%m', datetime(l.date))", nil
	default:
		return "", fmt.Errorf("unsupported granularity: %s", g)
	}
}

// BucketPoints generates the complete series of bucket starts covering the
// range, never truncated: every bucket between From and To appears. A
// one-day range at hourly granularity always yields 24 points.
func BucketPoints(r Range, g Granularity) []time.Time {
	var points []time.Time

	current := TruncateToBucket(r.From, g)
	end := TruncateToBucket(r.To, g)

	for !current.After(end) {
		points = append(points, current)
		current = next(current, g)
	}

	return points
}
