package services

import (
	"github.com/projecthub/backend/internal/analytics"
	"github.com/projecthub/backend/internal/models"
	"github.com/projecthub/backend/internal/rbac"
	"github.com/projecthub/backend/internal/store"
)

type ProjectService struct {
	store     store.Store
	authz     *AuthzService
	analytics *analytics.Engine
}

func NewProjectService(st store.Store, authz *AuthzService, an *analytics.Engine) *ProjectService {
	return &ProjectService{store: st, authz: authz, analytics: an}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// ProjectSummary is a project as seen by one user: the row itself plus
// the caller's resolved role and the team size (owner included).
type ProjectSummary struct {
	models.Project
	Role     string `json:"role"`
	TeamSize int    `json:"team_size"`
}

type ProjectDetail struct {
	models.Project
	Role    string              `json:"role"`
	Members []models.TeamMember `json:"members"`
}

// ProjectStats is the aggregate view returned by the stats endpoint.
type ProjectStats struct {
	ProjectID  uint                        `json:"project_id"`
	Progress   int                         `json:"progress"`
	TeamSize   int                         `json:"team_size"` // owner included
	ByStatus   analytics.CompletionRate    `json:"tasks_by_status"`
	ByPriority analytics.PriorityBreakdown `json:"tasks_by_priority"`
}

// Create creates a project owned by the caller.
func (s *ProjectService) Create(req *CreateProjectRequest, owner string) (*models.Project, error) {
	status := models.ProjectActive
	if req.Status != "" {
		status = models.ProjectStatus(req.Status)
		if !status.IsValid() {
			return nil, errInvalidData("invalid project status: " + req.Status)
		}
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     owner,
		Status:      status,
	}
	if err := s.store.CreateProject(project); err != nil {
		return nil, errDatabase()
	}
	return project, nil
}

// ListForUser returns every project the user owns or belongs to,
// deduplicated by project id.
func (s *ProjectService) ListForUser(username string) ([]ProjectSummary, error) {
	owned, err := s.store.ListProjectsByOwner(username)
	if err != nil {
		return nil, errDatabase()
	}

	memberships, err := s.store.ListMembershipsByUser(username)
	if err != nil {
		return nil, errDatabase()
	}

	seen := make(map[uint]bool)
	summaries := make([]ProjectSummary, 0, len(owned)+len(memberships))

	appendProject := func(p models.Project, role string) error {
		if seen[p.ID] {
			return nil
		}
		seen[p.ID] = true
		members, err := s.store.ListMembersByProject(p.ID)
		if err != nil {
			return errDatabase()
		}
		summaries = append(summaries, ProjectSummary{
			Project:  p,
			Role:     role,
			TeamSize: len(members) + 1,
		})
		return nil
	}

	for _, p := range owned {
		if err := appendProject(p, string(rbac.RoleOwner)); err != nil {
			return nil, err
		}
	}
	for _, m := range memberships {
		p, err := s.store.GetProject(m.ProjectID)
		if err != nil {
			// Dangling membership row; skip it.
			continue
		}
		if err := appendProject(*p, m.Role); err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// Get returns the project with its team, visible to owner and members.
func (s *ProjectService) Get(projectID uint, username string) (*ProjectDetail, error) {
	project, err := s.authz.CheckProjectAccess(projectID, username, false)
	if err != nil {
		return nil, err
	}

	role, err := s.authz.ResolveRole(username, projectID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembersByProject(projectID)
	if err != nil {
		return nil, errDatabase()
	}

	return &ProjectDetail{
		Project: *project,
		Role:    string(role),
		Members: members,
	}, nil
}

// Update applies a partial update. An empty payload is rejected.
func (s *ProjectService) Update(projectID uint, username string, req *UpdateProjectRequest) (*models.Project, error) {
	if req.Name == nil && req.Description == nil && req.Status == nil {
		return nil, errInvalidData("no fields to update")
	}

	if _, err := s.authz.RequirePermission(username, projectID, rbac.PermEditProject, "edit this project"); err != nil {
		return nil, err
	}

	project, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, errDatabase()
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, errInvalidData("project name cannot be empty")
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		if !status.IsValid() {
			return nil, errInvalidData("invalid project status: " + *req.Status)
		}
		project.Status = status
	}

	if err := s.store.SaveProject(project); err != nil {
		return nil, errDatabase()
	}
	return project, nil
}

// Delete removes the project together with its tasks and memberships.
func (s *ProjectService) Delete(projectID uint, username string) error {
	if _, err := s.authz.RequirePermission(username, projectID, rbac.PermDeleteProject, "delete this project"); err != nil {
		return err
	}
	if err := s.store.DeleteProject(projectID); err != nil {
		return errDatabase()
	}
	return nil
}

// Stats aggregates task and team counts for the project.
func (s *ProjectService) Stats(projectID uint, username string) (*ProjectStats, error) {
	project, err := s.authz.CheckProjectAccess(projectID, username, false)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.analytics.TaskCompletionRate(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	byPriority, err := s.analytics.TasksByPriority(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	members, err := s.store.ListMembersByProject(projectID)
	if err != nil {
		return nil, errDatabase()
	}

	return &ProjectStats{
		ProjectID:  projectID,
		Progress:   project.Progress,
		TeamSize:   len(members) + 1,
		ByStatus:   *byStatus,
		ByPriority: *byPriority,
	}, nil
}
