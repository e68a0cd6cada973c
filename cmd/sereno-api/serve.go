package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sereno-app/sereno/backend/internal/auth"
	"github.com/sereno-app/sereno/backend/internal/config"
	"github.com/sereno-app/sereno/backend/internal/handlers"
	"github.com/sereno-app/sereno/backend/internal/logger"
	"github.com/sereno-app/sereno/backend/internal/middleware"
	"github.com/sereno-app/sereno/backend/internal/service"
	"github.com/sereno-app/sereno/backend/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env if present; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.SetDefault(log)

	log.Info("starting sereno API server",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Open the record store: remote document store when configured and
	// reachable, local fallback otherwise
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		Mongo: store.MongoConfig{
			URI:             cfg.Mongo.URI,
			DBName:          cfg.Mongo.DBName,
			Timeout:         cfg.Mongo.Timeout,
			MaxPoolSize:     cfg.Mongo.MaxPoolSize,
			IdleConnTimeout: cfg.Mongo.IdleConnTimeout,
		},
		SQLitePath: cfg.Local.Path,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("error closing record store", logger.Err(err))
		}
	}()

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)

	// Initialize services
	clock := time.Now
	ingestService := service.NewIngestService(st, clock)
	analyticsService := service.NewAnalyticsService(st, service.DefaultScorePolicy(), clock)
	preferencesService := service.NewPreferencesService(st, clock)

	// Initialize handlers
	ingestHandler := handlers.NewIngestHandler(ingestService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, cfg.Analytics.DefaultWindowDays)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := 200
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := st.Ping(pingCtx); err != nil {
			status = "degraded"
			code = 503
		}
		c.JSON(code, gin.H{
			"status": status,
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit())
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(verifier))
		{
			// Ingestion routes
			submit := protected.Group("")
			submit.Use(middleware.RateLimitSubmit())
			{
				submit.POST("/assessments", ingestHandler.SubmitAssessment)
				submit.POST("/interventions", ingestHandler.SubmitIntervention)
				submit.POST("/biometrics", ingestHandler.SubmitBiometric)
			}

			// Analytics routes
			protected.GET("/analytics/snapshot", analyticsHandler.GetSnapshot)
			protected.GET("/analytics/export", analyticsHandler.Export)

			// Preferences routes
			protected.GET("/preferences", preferencesHandler.GetPreferences)
			protected.PUT("/preferences", preferencesHandler.UpdatePreferences)
		}
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
