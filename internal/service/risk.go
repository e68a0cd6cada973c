package service

import (
	"fmt"
	"sort"

	"github.com/sereno-app/sereno/backend/internal/models"
)

// thresholds for the independent risk rules
const (
	highMoodDrop       = 0.5 // |delta| beyond this upgrades declining_mood to high
	elevatedHeartRate  = 90  // bpm average
	lowEngagementCount = 3   // interventions per window below this flag low engagement
	elevatedScaleAvg   = 4   // recent 1-5 average at or above this is "elevated"
)

// riskInput gathers everything the rules read. Averages are per-signal means
// over the window.
type riskInput struct {
	trends   map[models.Signal]models.TrendResult
	averages map[models.Signal]float64
	stats    models.InterventionStats
}

// AssessRisks evaluates every rule independently and emits all flags that
// apply, ordered by severity (high first) and, within a severity, by rule
// evaluation order. recentAssessments is the number of check-ins in the
// window; the current rules key off trends, averages, and intervention
// counts, so it does not influence which flags fire.
func AssessRisks(trends map[models.Signal]models.TrendResult, averages map[models.Signal]float64, stats models.InterventionStats, recentAssessments int) []models.RiskFlag {
	in := riskInput{trends: trends, averages: averages, stats: stats}

	var flags []models.RiskFlag
	for _, rule := range riskRules {
		if flag, ok := rule(in); ok {
			flags = append(flags, flag)
		}
	}

	// stable sort keeps rule order inside each severity band
	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].Severity.Rank() < flags[j].Severity.Rank()
	})
	return flags
}

// riskRules in evaluation order. Each rule is independent of the others.
var riskRules = []func(riskInput) (models.RiskFlag, bool){
	decliningMoodRule,
	elevatedHeartRateRule,
	lowEngagementRule,
	elevatedScaleRule(models.SignalAnxiety, models.RiskElevatedAnxiety, "elevated anxiety levels"),
	elevatedScaleRule(models.SignalStress, models.RiskElevatedStress, "elevated stress levels"),
}

func decliningMoodRule(in riskInput) (models.RiskFlag, bool) {
	trend, ok := in.trends[models.SignalMood]
	if !ok || trend.Classification != models.TrendDeclining {
		return models.RiskFlag{}, false
	}
	severity := models.SeverityMedium
	if abs(trend.Delta) > highMoodDrop {
		severity = models.SeverityHigh
	}
	return models.RiskFlag{
		Type:        models.RiskDecliningMood,
		Severity:    severity,
		Description: "mood has been declining over the window",
	}, true
}

func elevatedHeartRateRule(in riskInput) (models.RiskFlag, bool) {
	avg, ok := in.averages[models.SignalHeartRate]
	if !ok || avg <= elevatedHeartRate {
		return models.RiskFlag{}, false
	}
	return models.RiskFlag{
		Type:        models.RiskElevatedHeartRate,
		Severity:    models.SeverityMedium,
		Description: fmt.Sprintf("average heart rate %.0f bpm is elevated", avg),
	}, true
}

func lowEngagementRule(in riskInput) (models.RiskFlag, bool) {
	if in.stats.TotalCount >= lowEngagementCount {
		return models.RiskFlag{}, false
	}
	return models.RiskFlag{
		Type:        models.RiskLowEngagement,
		Severity:    models.SeverityLow,
		Description: "calming tools used fewer than 3 times in the window",
	}, true
}

// elevatedScaleRule covers anxiety and stress: flagged when the trend declines
// under the lower-is-better convention, or the raw recent average is high on
// the 1-5 scale.
func elevatedScaleRule(signal models.Signal, flagType models.RiskFlagType, description string) func(riskInput) (models.RiskFlag, bool) {
	return func(in riskInput) (models.RiskFlag, bool) {
		declining := false
		if trend, ok := in.trends[signal]; ok {
			declining = trend.Classification == models.TrendDeclining
		}
		highAvg := false
		if avg, ok := in.averages[signal]; ok {
			highAvg = avg >= elevatedScaleAvg
		}
		if !declining && !highAvg {
			return models.RiskFlag{}, false
		}
		return models.RiskFlag{
			Type:        flagType,
			Severity:    models.SeverityMedium,
			Description: description,
		}, true
	}
}

// technique suggestions per risk flag type, used for the top-severity flag
var flagTechniques = map[models.RiskFlagType][]models.Tool{
	models.RiskDecliningMood:     {models.ToolBreathing, models.ToolAffirmations},
	models.RiskElevatedHeartRate: {models.ToolBreathing, models.ToolMuscleRelaxation},
	models.RiskLowEngagement:     {models.ToolBreathing},
	models.RiskElevatedAnxiety:   {models.ToolGrounding, models.ToolBreathing},
	models.RiskElevatedStress:    {models.ToolMuscleRelaxation, models.ToolSoundTherapy},
}

var flagMessages = map[models.RiskFlagType]string{
	models.RiskDecliningMood:     "Consider more frequent breathing exercises and positive affirmations",
	models.RiskElevatedHeartRate: "Try cardiovascular regulation techniques like paced breathing",
	models.RiskLowEngagement:     "A short daily calming session can help build the habit",
	models.RiskElevatedAnxiety:   "Grounding exercises can help when anxiety runs high",
	models.RiskElevatedStress:    "Progressive muscle relaxation works well against sustained stress",
}

// BuildRecommendations produces the ranked suggestion list:
// (a) a targeted suggestion for the single highest-severity active flag,
// (b) the user's historically most effective tool,
// (c) a fixed general-wellness reminder, always last.
// Flags are assumed already ordered by AssessRisks, so flags[0] is the top one.
func BuildRecommendations(flags []models.RiskFlag, stats models.InterventionStats) []models.Recommendation {
	var recs []models.Recommendation

	if len(flags) > 0 {
		top := flags[0]
		recs = append(recs, models.Recommendation{
			Kind:     models.RecommendationIntervention,
			Priority: top.Severity,
			Message:  flagMessages[top.Type],
			Tools:    flagTechniques[top.Type],
		})
	}

	if best, ok := mostEffectiveTool(stats); ok {
		recs = append(recs, models.Recommendation{
			Kind:     models.RecommendationTechnique,
			Priority: models.SeverityMedium,
			Message:  fmt.Sprintf("The %q technique has worked best for you", string(best)),
			Tools:    []models.Tool{best},
		})
	}

	recs = append(recs, models.Recommendation{
		Kind:     models.RecommendationGeneral,
		Priority: models.SeverityLow,
		Message:  "Keep a regular schedule for your wellbeing check-ins",
	})
	return recs
}

// mostEffectiveTool ranks tools by average self-rated effectiveness, breaking
// ties by total uses and then by canonical tool order for determinism. Tools
// with no effectiveness ratings are not considered.
func mostEffectiveTool(stats models.InterventionStats) (models.Tool, bool) {
	var best models.Tool
	bestAvg := -1.0
	bestUses := -1
	found := false

	for _, tool := range models.AllTools {
		ts, ok := stats.PerTool[tool]
		if !ok || ts.AvgEffectiveness == nil {
			continue
		}
		avg := *ts.AvgEffectiveness
		switch {
		case avg > bestAvg,
			avg == bestAvg && ts.Uses > bestUses:
			best = tool
			bestAvg = avg
			bestUses = ts.Uses
			found = true
		}
	}
	return best, found
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
