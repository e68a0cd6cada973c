package models

import "time"

// Signal names a per-user numeric time series.
type Signal string

const (
	SignalMood        Signal = "mood"
	SignalAnxiety     Signal = "anxiety"
	SignalStress      Signal = "stress"
	SignalEnergy      Signal = "energy"
	SignalHeartRate   Signal = "heartRate"
	SignalStressIndex Signal = "stressIndex"
)

// Direction states which way "better" points for a signal. Mood and energy
// improve as they rise; anxiety, stress and heart rate improve as they fall.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// DirectionFor returns the sign convention for a tracked signal. Unknown
// biometric signals default to lower-is-better, matching the physiological
// series (heart rate, stress index) that arrive through that path.
func DirectionFor(s Signal) Direction {
	switch s {
	case SignalMood, SignalEnergy:
		return HigherIsBetter
	default:
		return LowerIsBetter
	}
}

// SamplePoint is one observation in a signal series.
type SamplePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// TrendClassification is the qualitative outcome of a half-window comparison.
type TrendClassification string

const (
	TrendImproving        TrendClassification = "improving"
	TrendDeclining        TrendClassification = "declining"
	TrendStable           TrendClassification = "stable"
	TrendInsufficientData TrendClassification = "insufficient_data"
)

// TrendResult is the output of the trend analyzer for a single signal.
type TrendResult struct {
	Classification TrendClassification `json:"classification"`
	Delta          float64             `json:"delta"`
	Confidence     float64             `json:"confidence"`
	SampleCount    int                 `json:"sample_count"`
}

// Severity ranks risk flags. Higher severities sort first in snapshot output.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank maps a severity to its sort order (high first).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// RiskFlagType names a derived risk condition.
type RiskFlagType string

const (
	RiskDecliningMood     RiskFlagType = "declining_mood"
	RiskElevatedHeartRate RiskFlagType = "elevated_heart_rate"
	RiskLowEngagement     RiskFlagType = "low_engagement"
	RiskElevatedAnxiety   RiskFlagType = "elevated_anxiety"
	RiskElevatedStress    RiskFlagType = "elevated_stress"
)

// RiskFlag is a named, severity-tagged condition derived from trends and usage.
type RiskFlag struct {
	Type        RiskFlagType `json:"type"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
}

// RecommendationKind groups recommendations by origin.
type RecommendationKind string

const (
	RecommendationIntervention RecommendationKind = "intervention"
	RecommendationTechnique    RecommendationKind = "technique"
	RecommendationGeneral      RecommendationKind = "general"
)

// Recommendation is a single suggested action, ordered by priority in output.
type Recommendation struct {
	Kind     RecommendationKind `json:"kind"`
	Priority Severity           `json:"priority"`
	Message  string             `json:"message"`
	Tools    []Tool             `json:"tools,omitempty"`
}

// ToolStats aggregates intervention usage for one tool inside the window.
type ToolStats struct {
	Uses                 int      `json:"uses"`
	TotalDurationSeconds float64  `json:"total_duration_seconds"`
	AvgEffectiveness     *float64 `json:"avg_effectiveness,omitempty"`
	RatedUses            int      `json:"rated_uses"`
}

// InterventionStats summarizes all calming-tool usage inside the window.
type InterventionStats struct {
	TotalCount           int                `json:"total_count"`
	TotalDurationSeconds float64            `json:"total_duration_seconds"`
	PerTool              map[Tool]ToolStats `json:"per_tool"`
	MostUsed             *Tool              `json:"most_used,omitempty"`
}

// AnalyticsSnapshot is the full per-request analytics result. It is derived on
// demand and never persisted or mutated in place.
type AnalyticsSnapshot struct {
	TimeRangeDays     int                    `json:"time_range_days"`
	GeneratedAt       time.Time              `json:"generated_at"`
	AssessmentCount   int                    `json:"assessment_count"`
	WeeklyAverages    map[Signal]float64     `json:"weekly_averages"`
	Trends            map[Signal]TrendResult `json:"trends"`
	InterventionStats InterventionStats      `json:"intervention_stats"`
	RiskFlags         []RiskFlag             `json:"risk_flags"`
	Recommendations   []Recommendation       `json:"recommendations"`
	OverallScore      *float64               `json:"overall_score,omitempty"`
}
