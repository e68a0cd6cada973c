package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sereno-app/sereno/backend/internal/apierror"
	"github.com/sereno-app/sereno/backend/internal/middleware"
	"github.com/sereno-app/sereno/backend/internal/models"
	"github.com/sereno-app/sereno/backend/internal/service"
)

type IngestHandler struct {
	ingestService service.IngestService
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// SubmitAssessment handles POST /api/v1/assessments
func (h *IngestHandler) SubmitAssessment(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	record, err := h.ingestService.SubmitAssessment(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// SubmitIntervention handles POST /api/v1/interventions
func (h *IngestHandler) SubmitIntervention(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.SubmitInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	record, err := h.ingestService.SubmitIntervention(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// SubmitBiometric handles POST /api/v1/biometrics
func (h *IngestHandler) SubmitBiometric(c *gin.Context) {
	userID := middleware.UserID(c)

	var req models.SubmitBiometricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	sample, err := h.ingestService.SubmitBiometric(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sample)
}
