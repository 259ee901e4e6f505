package main

import (
	"github.com/gin-gonic/gin"
	"github.com/projecthub/backend/internal/middleware"
	"github.com/projecthub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	// Rate limiter for the public auth routes
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
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard
			protected.GET("/dashboard/overview", svc.dashboardHandler.Overview)
			protected.GET("/dashboard/summary", svc.dashboardHandler.Summary)
			protected.GET("/dashboard/activity", svc.dashboardHandler.RecentActivity)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects/:id", svc.projectHandler.GetByID)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)
			protected.GET("/projects/:id/stats", svc.projectHandler.Stats)

			// Tasks
			protected.GET("/projects/:id/tasks", svc.taskHandler.List)
			protected.POST("/projects/:id/tasks", svc.taskHandler.Create)
			protected.GET("/projects/:id/tasks/:task_id", svc.taskHandler.GetByID)
			protected.PUT("/projects/:id/tasks/:task_id", svc.taskHandler.Update)
			protected.PATCH("/projects/:id/tasks/:task_id/status", svc.taskHandler.UpdateStatus)
			protected.DELETE("/projects/:id/tasks/:task_id", svc.taskHandler.Delete)

			// Team members
			protected.GET("/projects/:id/members", svc.teamHandler.List)
			protected.POST("/projects/:id/members", svc.teamHandler.Add)
			protected.GET("/projects/:id/members/:username", svc.teamHandler.Get)
			protected.PUT("/projects/:id/members/:username", svc.teamHandler.UpdateRole)
			protected.DELETE("/projects/:id/members/:username", svc.teamHandler.Remove)
			protected.GET("/projects/:id/members/:username/permissions", svc.teamHandler.Permissions)

			// Analytics
			protected.GET("/projects/:id/analytics", svc.analyticsHandler.Project)
			protected.GET("/projects/:id/analytics/timeline", svc.analyticsHandler.Timeline)
			protected.GET("/projects/:id/analytics/members/:username", svc.analyticsHandler.Member)
			protected.GET("/projects/:id/analytics/members/:username/workload", svc.analyticsHandler.Workload)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// System Logs
			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
		}
	}
}
