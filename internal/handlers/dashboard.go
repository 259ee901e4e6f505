package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/backend/internal/middleware"
	"github.com/projecthub/backend/internal/services"
	"github.com/projecthub/backend/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview returns the landing-page payload
// GET /api/dashboard/overview
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.dashboardService.Overview(middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, overview)
}

// Summary returns the compact statistics card
// GET /api/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, summary)
}

// RecentActivity returns the most recently updated tasks across the
// caller's projects
// GET /api/dashboard/activity?limit=10
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.dashboardService.RecentActivity(middleware.GetUsername(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}
