package main

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/middleware"
	"github.com/tripmesh/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential-guessing surfaces
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Supported holiday countries (public)
		api.GET("/countries", svc.countryHandler.List)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Groups
			protected.POST("/groups", svc.groupHandler.Create)
			protected.POST("/groups/join", svc.groupHandler.Join)
			protected.GET("/groups/mine", svc.groupHandler.ListMine)
			protected.GET("/groups/:id/status", svc.groupHandler.Status)
			protected.GET("/groups/:id/me", svc.preferenceHandler.MyStatus)

			// Availability and matching
			protected.PUT("/groups/:id/availability", svc.availabilityHandler.Set)
			protected.GET("/groups/:id/availability/mine", svc.availabilityHandler.GetMine)
			protected.GET("/groups/:id/common-ranges", svc.availabilityHandler.CommonRanges)

			// Preferences
			protected.PUT("/groups/:id/preference", svc.preferenceHandler.Set)
			protected.GET("/groups/:id/preference/mine", svc.preferenceHandler.GetMine)

			// Recommendations and voting
			protected.POST("/groups/:id/recommendations/generate", svc.recommendationHandler.Generate)
			protected.GET("/groups/:id/recommendations", svc.recommendationHandler.List)
			protected.POST("/groups/:id/votes", svc.recommendationHandler.Vote)

			// Activity logs
			protected.GET("/activity-logs", svc.activityLogHandler.List)
		}
	}
}
