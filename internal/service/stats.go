package service

import "github.com/sereno-app/sereno/backend/internal/models"

// ComputeInterventionStats aggregates calming-tool usage over the window:
// count and total duration per tool, plus the most-used tool with ties broken
// by canonical tool order so repeated calls give identical answers.
func ComputeInterventionStats(interventions []models.InterventionRecord) models.InterventionStats {
	stats := models.InterventionStats{
		PerTool: map[models.Tool]models.ToolStats{},
	}

	for _, rec := range interventions {
		ts := stats.PerTool[rec.Tool]
		ts.Uses++
		ts.TotalDurationSeconds += rec.DurationSeconds
		if rec.Effectiveness != nil {
			ts.RatedUses++
			// accumulate the sum in AvgEffectiveness, finalized below
			sum := *rec.Effectiveness
			if ts.AvgEffectiveness != nil {
				sum += *ts.AvgEffectiveness
			}
			ts.AvgEffectiveness = &sum
		}
		stats.PerTool[rec.Tool] = ts

		stats.TotalCount++
		stats.TotalDurationSeconds += rec.DurationSeconds
	}

	for tool, ts := range stats.PerTool {
		if ts.AvgEffectiveness != nil {
			avg := *ts.AvgEffectiveness / float64(ts.RatedUses)
			ts.AvgEffectiveness = &avg
			stats.PerTool[tool] = ts
		}
	}

	if stats.TotalCount > 0 {
		bestUses := -1
		var best models.Tool
		for _, tool := range models.AllTools {
			if ts, ok := stats.PerTool[tool]; ok && ts.Uses > bestUses {
				best = tool
				bestUses = ts.Uses
			}
		}
		stats.MostUsed = &best
	}
	return stats
}
