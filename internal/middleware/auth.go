package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sereno-app/sereno/backend/internal/apierror"
	"github.com/sereno-app/sereno/backend/internal/auth"
	"github.com/sereno-app/sereno/backend/internal/logger"
)

// Auth middleware resolves the bearer token to an identity via the injected
// verifier and stores the user on the request context. Requests without a
// valid identity never reach the engine's write paths.
func Auth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("authentication failed: missing authorization header")
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Debug("authentication failed: invalid authorization format")
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			log.Warn("authentication failed: token verification error",
				logger.Err(err),
			)
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
			c.Abort()
			return
		}

		c.Set("user_id", identity.ID)
		c.Set("user_email", identity.Email)

		// Add user ID to request context for logging
		ctx := logger.WithUserID(c.Request.Context(), identity.ID)
		c.Request = c.Request.WithContext(ctx)

		log.Debug("authentication successful",
			logger.String("user_id", identity.ID),
		)

		c.Next()
	}
}

// UserID pulls the authenticated user from the gin context. Returns an empty
// string when the request is unauthenticated.
func UserID(c *gin.Context) string {
	if id, exists := c.Get("user_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
