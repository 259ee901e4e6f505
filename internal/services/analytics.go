package services

import (
	"github.com/projecthub/backend/internal/analytics"
	"github.com/projecthub/backend/internal/rbac"
)

// AnalyticsService gates the analytics engine behind the VIEW_ANALYTICS
// permission and the self-access rule for member-scoped metrics.
type AnalyticsService struct {
	authz  *AuthzService
	engine *analytics.Engine
}

func NewAnalyticsService(authz *AuthzService, engine *analytics.Engine) *AnalyticsService {
	return &AnalyticsService{authz: authz, engine: engine}
}

// ProjectAnalytics is the full analytics payload for a project.
type ProjectAnalytics struct {
	ProjectID      uint                           `json:"project_id"`
	Progress       int                            `json:"progress"`
	CompletionRate analytics.CompletionRate       `json:"completion_rate"`
	ByPriority     analytics.PriorityBreakdown    `json:"tasks_by_priority"`
	Productivity   []analytics.MemberProductivity `json:"team_productivity"`
}

// Project computes the full analytics view. Progress is recomputed (and
// persisted) as part of the read so the payload is never stale.
func (s *AnalyticsService) Project(projectID uint, username string) (*ProjectAnalytics, error) {
	if _, err := s.authz.RequirePermission(username, projectID, rbac.PermViewAnalytics, "view analytics"); err != nil {
		return nil, err
	}

	progress, err := s.engine.CalculateProjectProgress(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	rate, err := s.engine.TaskCompletionRate(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	byPriority, err := s.engine.TasksByPriority(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	productivity, err := s.engine.TeamProductivity(projectID)
	if err != nil {
		return nil, errDatabase()
	}

	return &ProjectAnalytics{
		ProjectID:      projectID,
		Progress:       progress,
		CompletionRate: *rate,
		ByPriority:     *byPriority,
		Productivity:   productivity,
	}, nil
}

// Timeline returns the daily completion series.
func (s *AnalyticsService) Timeline(projectID uint, username string, days int) ([]analytics.TimelinePoint, error) {
	if _, err := s.authz.RequirePermission(username, projectID, rbac.PermViewAnalytics, "view analytics"); err != nil {
		return nil, err
	}

	points, err := s.engine.ProjectTimeline(projectID, days)
	if err != nil {
		return nil, errDatabase()
	}
	return points, nil
}

// checkMemberScope allows VIEW_ANALYTICS holders to read anyone's
// metrics and every member to read their own.
func (s *AnalyticsService) checkMemberScope(projectID uint, actor, target string) error {
	if actor == target {
		_, err := s.authz.CheckProjectAccess(projectID, actor, false)
		return err
	}
	_, err := s.authz.RequirePermission(actor, projectID, rbac.PermViewAnalytics, "view member analytics")
	return err
}

// Member returns one member's role and metrics.
func (s *AnalyticsService) Member(projectID uint, actor, target string) (*analytics.MemberDetail, error) {
	if err := s.checkMemberScope(projectID, actor, target); err != nil {
		return nil, err
	}

	detail, err := s.engine.MemberAnalytics(projectID, target)
	if err != nil {
		return nil, errDatabase()
	}
	return detail, nil
}

// Workload returns one member's task status counts.
func (s *AnalyticsService) Workload(projectID uint, actor, target string) (*analytics.CompletionRate, error) {
	if err := s.checkMemberScope(projectID, actor, target); err != nil {
		return nil, err
	}

	workload, err := s.engine.MemberWorkload(projectID, target)
	if err != nil {
		return nil, errDatabase()
	}
	return workload, nil
}
