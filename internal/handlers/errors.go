package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sereno-app/sereno/backend/internal/apierror"
	"github.com/sereno-app/sereno/backend/internal/logger"
	"github.com/sereno-app/sereno/backend/internal/models"
)

// storeRetryAfterSeconds is what we tell clients to wait after a 503.
const storeRetryAfterSeconds = 30

// writeServiceError translates a service-layer error into an RFC 9457
// problem response. Unrecognized errors become a 500 with the detail
// logged server-side only.
func writeServiceError(c *gin.Context, err error) {
	requestID := apierror.GetRequestID(c)

	if verr, ok := models.AsValidation(err); ok {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: verr.Field, Message: verr.Reason, Code: "invalid_value"},
		}))
		return
	}

	switch {
	case errors.Is(err, models.ErrAuthRequired):
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
	case errors.Is(err, models.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "resource"))
	case errors.Is(err, models.ErrStoreUnavailable):
		logger.Ctx(c.Request.Context()).Warn("record store unavailable", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewStoreUnavailableError(requestID, storeRetryAfterSeconds))
	default:
		logger.Ctx(c.Request.Context()).Error("unhandled service error", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
