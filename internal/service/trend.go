package service

import (
	"sort"
	"time"

	"github.com/sereno-app/sereno/backend/internal/models"
)

// trend classification threshold: half-window means closer than this are "stable"
const trendDelta = 0.2

// samples needed for full confidence
const fullConfidenceCount = 10

// AnalyzeTrend classifies a signal's movement over the trailing window using a
// half-window mean comparison. The series may arrive in any order; it is
// filtered to [now-windowDays, now] and sorted oldest-first before splitting.
//
// The split is by index midpoint: first half [0, ceil(n/2)), second half
// [floor(n/2), n). The halves share the middle element when n is odd, which
// weights the comparison toward recency rather than forming a strict partition.
//
// The computation is deterministic: now is a parameter, never the wall clock,
// so identical inputs always produce identical results.
func AnalyzeTrend(series []models.SamplePoint, windowDays int, now time.Time, dir models.Direction) models.TrendResult {
	cutoff := now.AddDate(0, 0, -windowDays)
	filtered := make([]models.SamplePoint, 0, len(series))
	for _, p := range series {
		if !p.Timestamp.Before(cutoff) && !p.Timestamp.After(now) {
			filtered = append(filtered, p)
		}
	}

	n := len(filtered)
	if n < 2 {
		return models.TrendResult{
			Classification: models.TrendInsufficientData,
			Delta:          0,
			Confidence:     0,
			SampleCount:    n,
		}
	}

	sortByTime(filtered)

	firstEnd := (n + 1) / 2 // ceil(n/2)
	secondStart := n / 2    // floor(n/2)

	delta := mean(filtered[secondStart:n]) - mean(filtered[0:firstEnd])

	// For lower-is-better signals a rising mean is a decline.
	effective := delta
	if dir == models.LowerIsBetter {
		effective = -delta
	}

	classification := models.TrendStable
	switch {
	case effective > trendDelta:
		classification = models.TrendImproving
	case effective < -trendDelta:
		classification = models.TrendDeclining
	}

	confidence := float64(n) / fullConfidenceCount
	if confidence > 1 {
		confidence = 1
	}

	return models.TrendResult{
		Classification: classification,
		Delta:          delta,
		Confidence:     confidence,
		SampleCount:    n,
	}
}

func sortByTime(points []models.SamplePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
}

func mean(points []models.SamplePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}
