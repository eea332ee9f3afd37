package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medconnect-server/internal/config"
	"medconnect-server/internal/handlers"
	"medconnect-server/internal/middleware"
	"medconnect-server/internal/models"
	"medconnect-server/internal/services"
)

// Services groups the core services the routes depend on.
type Services struct {
	Consultations *services.ConsultationService
	Availability  *services.AvailabilityService
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svc Services) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	consultationHandler := handlers.NewConsultationHandler(svc.Consultations)
	doctorHandler := handlers.NewDoctorHandler(db, svc.Availability)
	notificationHandler := handlers.NewNotificationHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg, db)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		// Doctor discovery and availability
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id/available-slots", doctorHandler.AvailableSlots)
			doctorRoutes.PUT("/availability", middleware.RoleAuthMiddleware(models.RoleDoctor), doctorHandler.UpdateAvailability)
		}

		// Consultation booking and lifecycle
		consultationRoutes := private.Group("/consultations")
		{
			// Only patients book; either party starts/ends (role resolved from identity)
			consultationRoutes.POST("/book", middleware.RoleAuthMiddleware(models.RolePatient), consultationHandler.Book)
			consultationRoutes.GET("", consultationHandler.List)
			consultationRoutes.POST("/:id/call", consultationHandler.Start)
			consultationRoutes.POST("/:id/end", consultationHandler.End)
		}

		// In-app notifications
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.List)
			notificationRoutes.PATCH("/:id/read", notificationHandler.MarkRead)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
