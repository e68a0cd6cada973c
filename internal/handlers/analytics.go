package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sereno-app/sereno/backend/internal/apierror"
	"github.com/sereno-app/sereno/backend/internal/middleware"
	"github.com/sereno-app/sereno/backend/internal/service"
)

type AnalyticsHandler struct {
	analyticsService  service.AnalyticsService
	defaultWindowDays int
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, defaultWindowDays int) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:  analyticsService,
		defaultWindowDays: defaultWindowDays,
	}
}

// GetSnapshot handles GET /api/v1/analytics/snapshot
func (h *AnalyticsHandler) GetSnapshot(c *gin.Context) {
	userID := middleware.UserID(c)

	windowDays := h.defaultWindowDays
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "window_days", Message: "must be an integer", Code: "invalid_type"},
			}))
			return
		}
		windowDays = parsed
	}

	snapshot, err := h.analyticsService.GetSnapshot(c.Request.Context(), userID, windowDays)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Export handles GET /api/v1/analytics/export
func (h *AnalyticsHandler) Export(c *gin.Context) {
	userID := middleware.UserID(c)

	bundle, err := h.analyticsService.Export(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}
