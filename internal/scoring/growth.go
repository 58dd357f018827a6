package scoring

import (
	"math"
	"strings"
)

// Score bounds for the growth-signal path. Unlike the keyword path, the
// growth path is clamped on both ends: source-reported growth can be
// arbitrarily large and must not blow past the dashboard scale.
const (
	growthScoreBase  = 50.0
	growthScoreFloor = 10.0
	growthScoreCap   = 100.0

	saturabilityBase = 40.0
)

// labelDirection maps a source-provided trend label to a signed
// direction: +1 for rising labels, -1 for declining ones, 0 otherwise.
func labelDirection(label string) float64 {
	l := strings.ToLower(label)
	switch {
	case l == "":
		return 0
	case strings.Contains(l, "hausse"), strings.Contains(l, "up"),
		strings.Contains(l, "trending"), strings.Contains(l, "hot"):
		return 1
	case strings.Contains(l, "baisse"), strings.Contains(l, "down"),
		strings.Contains(l, "declin"):
		return -1
	}
	return 0
}

// ComputeTrendScore derives the ingestion-time trend score from the
// source-provided growth signal. Growth contributes up to ±40 points
// around the base; the label adds a flat ±10. Result is clamped to
// [10, 100].
func ComputeTrendScore(growthPct *float64, label string) float64 {
	score := growthScoreBase
	if growthPct != nil {
		score += clamp(*growthPct, -40, 40)
	}
	score += labelDirection(label) * 10

	return clamp(score, growthScoreFloor, growthScoreCap)
}

// ComputeSaturability estimates how crowded a trend is on a 0-100 scale:
// higher means more saturated, less opportunity. Crowding grows with the
// number of similar catalog entries; strong positive growth pulls
// saturability down (the trend still has room), declining labels push it
// up. Result is clamped to [0, 100] and rounded to 2 decimals.
func ComputeSaturability(growthPct *float64, label string, similarCount int) float64 {
	sat := saturabilityBase
	sat += math.Min(float64(similarCount)*6, 36)
	if growthPct != nil {
		sat -= clamp(*growthPct/2, -20, 20)
	}
	sat -= labelDirection(label) * 5

	sat = clamp(sat, 0, 100)
	return math.Round(sat*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
