package main

import (
	"github.com/projecthub/backend/internal/analytics"
	"github.com/projecthub/backend/internal/config"
	"github.com/projecthub/backend/internal/handlers"
	"github.com/projecthub/backend/internal/models"
	"github.com/projecthub/backend/internal/rbac"
	"github.com/projecthub/backend/internal/services"
	"github.com/projecthub/backend/internal/store"
	"github.com/projecthub/backend/internal/utils"
	"github.com/projecthub/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	authHandler      *handlers.AuthHandler
	projectHandler   *handlers.ProjectHandler
	taskHandler      *handlers.TaskHandler
	teamHandler      *handlers.TeamHandler
	analyticsHandler *handlers.AnalyticsHandler
	dashboardHandler *handlers.DashboardHandler
	systemLogHandler *handlers.SystemLogHandler
	healthHandler    *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, engines, services.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(models.GetDB())
	services.StartLogCleanupScheduler(models.GetDB(), cfg.Log.RetentionDays)

	st := store.NewGormStore(models.GetDB())
	rbacEngine := rbac.NewEngine(st)
	analyticsEngine := analytics.NewEngine(st, rbacEngine)

	authzService := services.NewAuthzService(st, rbacEngine)
	authService := services.NewAuthService(st, &cfg.JWT)
	projectService := services.NewProjectService(st, authzService, analyticsEngine)
	taskService := services.NewTaskService(st, authzService, rbacEngine, analyticsEngine)
	teamService := services.NewTeamService(st, authzService, rbacEngine)
	analyticsService := services.NewAnalyticsService(authzService, analyticsEngine)
	dashboardService := services.NewDashboardService(st, projectService, analyticsEngine)

	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		authHandler:      handlers.NewAuthHandler(authService),
		projectHandler:   handlers.NewProjectHandler(projectService),
		taskHandler:      handlers.NewTaskHandler(taskService),
		teamHandler:      handlers.NewTeamHandler(teamService),
		analyticsHandler: handlers.NewAnalyticsHandler(analyticsService),
		dashboardHandler: handlers.NewDashboardHandler(dashboardService),
		systemLogHandler: handlers.NewSystemLogHandler(models.GetDB()),
		healthHandler:    handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops background services.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")
}
