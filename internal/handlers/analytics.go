package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/backend/internal/middleware"
	"github.com/projecthub/backend/internal/services"
	"github.com/projecthub/backend/pkg/response"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Project returns the full analytics view of a project
// GET /api/projects/:id/analytics
func (h *AnalyticsHandler) Project(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.analyticsService.Project(projectID, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Timeline returns the daily completion series
// GET /api/projects/:id/analytics/timeline?days=30
func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	points, err := h.analyticsService.Timeline(projectID, middleware.GetUsername(c), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"days": len(points) - 1, "timeline": points})
}

// Member returns one member's role and metrics
// GET /api/projects/:id/analytics/members/:username
func (h *AnalyticsHandler) Member(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.analyticsService.Member(projectID, middleware.GetUsername(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, detail)
}

// Workload returns one member's task status counts
// GET /api/projects/:id/analytics/members/:username/workload
func (h *AnalyticsHandler) Workload(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	workload, err := h.analyticsService.Workload(projectID, middleware.GetUsername(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, workload)
}
