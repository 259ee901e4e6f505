package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/projecthub/backend/internal/middleware"
	"github.com/projecthub/backend/internal/services"
	"github.com/projecthub/backend/pkg/response"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List returns the team roster including the owner
// GET /api/projects/:id/members
func (h *TeamHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	members, err := h.teamService.List(projectID, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// Get returns one member's record
// GET /api/projects/:id/members/:username
func (h *TeamHandler) Get(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	member, err := h.teamService.Get(projectID, middleware.GetUsername(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, member)
}

// Add adds a member to the team (or updates their role in place)
// POST /api/projects/:id/members
func (h *TeamHandler) Add(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.teamService.Add(projectID, middleware.GetUsername(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, member)
}

// UpdateRole changes a member's role
// PUT /api/projects/:id/members/:username
func (h *TeamHandler) UpdateRole(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.teamService.UpdateRole(projectID, middleware.GetUsername(c), c.Param("username"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, member)
}

// Remove removes a member from the team
// DELETE /api/projects/:id/members/:username
func (h *TeamHandler) Remove(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.Remove(projectID, middleware.GetUsername(c), c.Param("username")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed successfully"})
}

// Permissions lists the permissions a member's role grants
// GET /api/projects/:id/members/:username/permissions
func (h *TeamHandler) Permissions(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	perms, err := h.teamService.Permissions(projectID, middleware.GetUsername(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, perms)
}
