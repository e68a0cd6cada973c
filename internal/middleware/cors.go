package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS handles cross-origin requests from the companion app's web builds.
// allowedOrigins is a comma-separated list; empty allows all origins.
func CORS(allowedOrigins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if allowedOrigins == "" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		origins := strings.Split(allowedOrigins, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
