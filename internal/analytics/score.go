package analytics

import (
	"math"
)

// Score labels, from lowest to highest spending relative to the baseline.
const (
	ScoreExcellent = "Excellent"
	ScoreGood      = "Good"
	ScoreModerate  = "Moderate"
	ScoreHigh      = "High"
	ScoreVeryHigh  = "Very High"
)

// DayScore rates one day's spending against a baseline average.
type DayScore struct {
	Label string  `json:"label"`
	Score int     `json:"score"`
	Ratio float64 `json:"ratio"`
}

// ScoreDay maps a day's amount, relative to a baseline average, to a
// qualitative band and a 0-100 score. Lower spending scores higher. A
// non-positive baseline pins the ratio to 1, a neutral day.
func ScoreDay(amount, average float64) DayScore {
	ratio := 1.0
	if average > 0 {
		ratio = amount / average
	}

	var label string
	switch {
	case ratio < 0.7:
		label = ScoreExcellent
	case ratio < 1.0:
		label = ScoreGood
	case ratio < 1.3:
		label = ScoreModerate
	case ratio < 1.7:
		label = ScoreHigh
	default:
		label = ScoreVeryHigh
	}

	// A zero ratio (nothing spent) short-circuits the division and keeps
	// the top score; a negative ratio goes through the formula and clamps
	// to the bottom.
	score := 100.0
	if ratio != 0 {
		score = math.Round(100 / ratio)
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return DayScore{Label: label, Score: int(score), Ratio: ratio}
}
