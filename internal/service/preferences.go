package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sereno-app/sereno/backend/internal/models"
	"github.com/sereno-app/sereno/backend/internal/store"
)

type preferencesService struct {
	store store.Store
	clock func() time.Time
}

// NewPreferencesService creates the per-user settings service.
func NewPreferencesService(st store.Store, clock func() time.Time) PreferencesService {
	if clock == nil {
		clock = time.Now
	}
	return &preferencesService{store: st, clock: clock}
}

// Get returns the user's preferences, or an empty default when none are stored.
func (s *preferencesService) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}
	prefs, err := s.store.GetPreferences(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return &models.Preferences{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

// Update applies a partial preference change and returns the stored result.
func (s *preferencesService) Update(ctx context.Context, userID string, req *models.UpdatePreferencesRequest) (*models.Preferences, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}
	if req.ReminderHour.Valid {
		if req.ReminderHour.Value < 0 || req.ReminderHour.Value > 23 {
			return nil, models.NewValidationError("reminder_hour", "must be between 0 and 23")
		}
	}
	var tools []models.Tool
	for _, raw := range req.PreferredTools {
		tool, err := models.ParseTool(raw)
		if err != nil {
			return nil, models.NewValidationError("preferred_tools", err.Error())
		}
		tools = append(tools, tool)
	}

	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.ReminderHour.Set {
		prefs.ReminderHour = req.ReminderHour.ToPtr()
	}
	if req.PreferredTools != nil {
		prefs.PreferredTools = tools
	}
	prefs.UpdatedAt = s.clock().UTC()

	if err := s.store.PutPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("put preferences: %w", err)
	}
	return prefs, nil
}
