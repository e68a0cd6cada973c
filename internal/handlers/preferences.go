package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sereno-app/sereno/backend/internal/apierror"
	"github.com/sereno-app/sereno/backend/internal/middleware"
	"github.com/sereno-app/sereno/backend/internal/models"
	"github.com/sereno-app/sereno/backend/internal/service"
)

type PreferencesHandler struct {
	preferencesService service.PreferencesService
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(preferencesService service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{
		preferencesService: preferencesService,
	}
}

// GetPreferences handles GET /api/v1/preferences
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID := middleware.UserID(c)

	prefs, err := h.preferencesService.Get(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/v1/preferences
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	prefs, err := h.preferencesService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}
