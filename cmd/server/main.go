package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awaazhq/awaaz-api/internal/config"
	"github.com/awaazhq/awaaz-api/internal/database"
	apierrors "github.com/awaazhq/awaaz-api/internal/errors"
	"github.com/awaazhq/awaaz-api/internal/handlers"
	"github.com/awaazhq/awaaz-api/internal/middleware"
	"github.com/awaazhq/awaaz-api/internal/repository"
	"github.com/awaazhq/awaaz-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Wire repositories, services, and handlers
	userRepo := repository.NewUserRepository(database.GetDB())
	complaintRepo := repository.NewComplaintRepository(database.GetDB())

	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	complaintService := services.NewComplaintService(complaintRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	complaintHandler := handlers.NewComplaintHandler(complaintService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Awaaz API is running",
		})
	})

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	requireAdmin := middleware.RequireAdmin()

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.PATCH("/update-password", requireAuth, authHandler.UpdatePassword)
		}

		// User routes (all protected, admin-gated except update-profile)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.PATCH("/update-profile", userHandler.UpdateProfile)
			users.GET("", requireAdmin, userHandler.ListUsers)
			users.GET("/:id", requireAdmin, userHandler.GetUser)
			users.PATCH("/:id/make-admin", requireAdmin, userHandler.MakeAdmin)
			users.DELETE("/:id", requireAdmin, userHandler.DeleteUser)
		}

		// Complaint routes (reads public, mutations protected)
		complaints := api.Group("/complaints")
		{
			complaints.GET("", complaintHandler.ListComplaints)
			complaints.GET("/:id", complaintHandler.GetComplaint)
			complaints.POST("", requireAuth, complaintHandler.CreateComplaint)
			complaints.PATCH("/:id", requireAuth, complaintHandler.UpdateComplaint)
			complaints.DELETE("/:id", requireAuth, complaintHandler.DeleteComplaint)
			complaints.POST("/:id/comments", requireAuth, complaintHandler.AddComment)
			complaints.PATCH("/:id/vote", requireAuth, complaintHandler.VoteComplaint)
			complaints.PATCH("/:id/assign", requireAuth, requireAdmin, complaintHandler.AssignComplaint)
			complaints.PATCH("/:id/status", requireAuth, requireAdmin, complaintHandler.UpdateComplaintStatus)
		}
	}

	// Unknown routes answer in the same envelope as everything else
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Can't find "+c.Request.URL.Path+" on this server")
	})

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
