package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sereno-app/sereno/backend/internal/logger"
)

// RequestID assigns a correlation ID to every request, honoring an incoming
// X-Request-ID header so mobile clients can trace their own calls.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-ID"))
		requestID := logger.RequestIDFromContext(ctx)

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Logger emits one structured log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log := logger.Ctx(c.Request.Context())
		log.Info("request completed",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
		)
	}
}
