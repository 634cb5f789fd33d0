package routes

import (
	"earcare-app-server/internal/config"
	"earcare-app-server/internal/handlers"
	"earcare-app-server/internal/middleware"
	"earcare-app-server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	treatmentHandler := handlers.NewTreatmentHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/me", authHandler.Me)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Admins register and list doctors
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("/doctors", userHandler.RegisterDoctor)
				adminRoutes.GET("/doctors", userHandler.GetDoctors)
			}

			// Doctors register patient accounts
			userRoutes.POST("/patients",
				middleware.RoleAuthMiddleware(models.RoleDoctor), userHandler.RegisterPatient)

			// Account maintenance shared by admins and doctors
			staffRoutes := userRoutes.Group("")
			staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor))
			{
				staffRoutes.GET("/:id", userHandler.GetUserByID)
				staffRoutes.PUT("/:id", userHandler.UpdateUser)
				staffRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Treatment routes. Row-level scoping happens in the treatment
		// service; the middleware only gates by role.
		treatmentRoutes := private.Group("/treatments")
		{
			readRoutes := treatmentRoutes.Group("")
			readRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor, models.RolePatient))
			{
				readRoutes.GET("", treatmentHandler.ListTreatments)
				readRoutes.GET("/:id", treatmentHandler.GetTreatmentByID)
			}

			doctorRoutes := treatmentRoutes.Group("")
			doctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
			{
				doctorRoutes.POST("", treatmentHandler.CreateTreatment)
				doctorRoutes.PUT("/:id", treatmentHandler.UpdateTreatment)
				doctorRoutes.DELETE("/:id", treatmentHandler.DeleteTreatment)
				doctorRoutes.GET("/statistics", treatmentHandler.GetStatistics)
				doctorRoutes.GET("/patients", treatmentHandler.GetPatientList)
			}
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
