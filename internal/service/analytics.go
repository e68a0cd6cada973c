package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sereno-app/sereno/backend/internal/logger"
	"github.com/sereno-app/sereno/backend/internal/models"
	"github.com/sereno-app/sereno/backend/internal/store"
)

// exportVersion tags export bundles so a future importer can tell shapes apart.
const exportVersion = "1.0"

// coreSignals always appear in a snapshot's trend map, even with no data, so
// clients can render "insufficient data" states without probing for keys.
var coreSignals = []models.Signal{
	models.SignalMood,
	models.SignalAnxiety,
	models.SignalStress,
	models.SignalEnergy,
}

type analyticsService struct {
	store  store.Store
	policy ScorePolicy
	clock  func() time.Time
}

// NewAnalyticsService creates the aggregation facade. The clock pins the
// window boundary; injecting it keeps snapshots reproducible in tests.
func NewAnalyticsService(st store.Store, policy ScorePolicy, clock func() time.Time) AnalyticsService {
	if clock == nil {
		clock = time.Now
	}
	return &analyticsService{store: st, policy: policy, clock: clock}
}

// GetSnapshot assembles the full analytics view for one user over the trailing
// window. It only ever reads; stored records are never touched. A failed read
// fails the whole call — a partial snapshot is never silently returned.
func (s *analyticsService) GetSnapshot(ctx context.Context, userID string, windowDays int) (*models.AnalyticsSnapshot, error) {
	now := s.clock().UTC()

	if userID == "" {
		// No identity means no personalized data, not an error on the read path.
		return emptySnapshot(windowDays, now), nil
	}
	if windowDays <= 0 {
		return nil, models.NewValidationError("window_days", "must be a positive number of days")
	}

	since := now.AddDate(0, 0, -windowDays)
	opts := store.QueryOptions{Since: since}

	assessments, err := s.store.QueryAssessments(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("read assessments: %w", err)
	}
	interventions, err := s.store.QueryInterventions(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("read interventions: %w", err)
	}
	biometrics, err := s.store.QueryBiometrics(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("read biometrics: %w", err)
	}

	if len(assessments) == 0 && len(interventions) == 0 && len(biometrics) == 0 {
		return emptySnapshot(windowDays, now), nil
	}

	series := buildSeries(assessments, biometrics)

	trends := make(map[models.Signal]models.TrendResult, len(series))
	averages := make(map[models.Signal]float64, len(series))
	for signal, points := range series {
		trends[signal] = AnalyzeTrend(points, windowDays, now, models.DirectionFor(signal))
		averages[signal] = mean(points)
	}
	for _, signal := range coreSignals {
		if _, ok := trends[signal]; !ok {
			trends[signal] = models.TrendResult{Classification: models.TrendInsufficientData}
		}
	}

	stats := ComputeInterventionStats(interventions)
	flags := AssessRisks(trends, averages, stats, len(assessments))
	recommendations := BuildRecommendations(flags, stats)

	snapshot := &models.AnalyticsSnapshot{
		TimeRangeDays:     windowDays,
		GeneratedAt:       now,
		AssessmentCount:   len(assessments),
		WeeklyAverages:    averages,
		Trends:            trends,
		InterventionStats: stats,
		RiskFlags:         flags,
		Recommendations:   recommendations,
	}
	if score, ok := s.policy.CompositeScore(averages); ok {
		snapshot.OverallScore = &score
	}

	logger.Ctx(ctx).Debug("snapshot assembled",
		logger.Int("window_days", windowDays),
		logger.Int("assessments", len(assessments)),
		logger.Int("interventions", len(interventions)),
		logger.Int("biometrics", len(biometrics)),
	)
	return snapshot, nil
}

// Export returns everything stored for the user, unfiltered by window.
func (s *analyticsService) Export(ctx context.Context, userID string) (*models.ExportBundle, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}

	all := store.QueryOptions{}
	assessments, err := s.store.QueryAssessments(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("read assessments: %w", err)
	}
	interventions, err := s.store.QueryInterventions(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("read interventions: %w", err)
	}
	biometrics, err := s.store.QueryBiometrics(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("read biometrics: %w", err)
	}
	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("read preferences: %w", err)
		}
		prefs = nil
	}

	return &models.ExportBundle{
		ExportedAt:    s.clock().UTC(),
		Version:       exportVersion,
		UserID:        userID,
		Assessments:   assessments,
		Interventions: interventions,
		Biometrics:    biometrics,
		Preferences:   prefs,
	}, nil
}

// buildSeries turns raw records into per-signal time series. The mood series
// comes from assessment scores; the other scale signals come from raw
// responses; every numeric key in a biometric payload becomes its own series.
func buildSeries(assessments []models.AssessmentRecord, biometrics []models.BiometricSample) map[models.Signal][]models.SamplePoint {
	series := map[models.Signal][]models.SamplePoint{}

	for _, a := range assessments {
		series[models.SignalMood] = append(series[models.SignalMood], models.SamplePoint{
			Timestamp: a.CreatedAt,
			Value:     a.Score,
		})
		for key, value := range a.RawResponses {
			signal := models.Signal(key)
			if signal == models.SignalMood {
				continue // the top-level score already carries mood
			}
			series[signal] = append(series[signal], models.SamplePoint{
				Timestamp: a.CreatedAt,
				Value:     value,
			})
		}
	}

	for _, b := range biometrics {
		for key, value := range b.Payload {
			signal := models.Signal(key)
			series[signal] = append(series[signal], models.SamplePoint{
				Timestamp: b.CreatedAt,
				Value:     value,
			})
		}
	}
	return series
}

func emptySnapshot(windowDays int, now time.Time) *models.AnalyticsSnapshot {
	trends := make(map[models.Signal]models.TrendResult, len(coreSignals))
	for _, signal := range coreSignals {
		trends[signal] = models.TrendResult{Classification: models.TrendInsufficientData}
	}
	return &models.AnalyticsSnapshot{
		TimeRangeDays:  windowDays,
		GeneratedAt:    now,
		WeeklyAverages: map[models.Signal]float64{},
		Trends:         trends,
		InterventionStats: models.InterventionStats{
			PerTool: map[models.Tool]models.ToolStats{},
		},
		Recommendations: []models.Recommendation{{
			Kind:     models.RecommendationGeneral,
			Priority: models.SeverityLow,
			Message:  "Keep a regular schedule for your wellbeing check-ins",
		}},
	}
}
