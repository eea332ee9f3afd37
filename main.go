package main

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"medconnect-server/internal/config"
	"medconnect-server/internal/jobs"
	"medconnect-server/internal/models"
	"medconnect-server/internal/routes"
	"medconnect-server/internal/services"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("No .env file loaded")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading config")
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Core services share one clock pinned to the clinic timezone
	clock, err := services.NewClinicClock(cfg.ClinicTimezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading clinic timezone")
	}

	store := services.NewGormStore(db)
	notificationService := services.NewNotificationService(
		store,
		clock,
		services.NotificationConfig{
			ReminderLeadMinutes:   cfg.ReminderLeadMinutes,
			ReminderWindowMinutes: cfg.ReminderWindowMinutes,
			ArrivalWindowMinutes:  cfg.ArrivalWindowMinutes,
		},
		logger,
		&services.LogNotifier{Logger: logger},
	)
	availabilityService := services.NewAvailabilityService(store, clock, cfg.SlotIntervalMinutes)
	consultationService := services.NewConsultationService(store, clock, notificationService, logger)

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, db, cfg, routes.Services{
		Consultations: consultationService,
		Availability:  availabilityService,
	})

	// Periodic reminder/arrival sweeps
	sweeper := jobs.StartSweepScheduler(notificationService, logger)
	defer sweeper.Stop()

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info().Str("port", cfg.Port).Msg("Server running")
	if err := router.Run(serverAddr); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
