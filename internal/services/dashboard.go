package services

import (
	"sort"

	"github.com/projecthub/backend/internal/analytics"
	"github.com/projecthub/backend/internal/store"
)

type DashboardService struct {
	store     store.Store
	projects  *ProjectService
	analytics *analytics.Engine
}

func NewDashboardService(st store.Store, projects *ProjectService, an *analytics.Engine) *DashboardService {
	return &DashboardService{store: st, projects: projects, analytics: an}
}

type DashboardOverview struct {
	Projects   []ProjectSummary         `json:"projects"`
	MyTasks    []analytics.UserTask     `json:"my_tasks"`
	Statistics analytics.UserStatistics `json:"statistics"`
}

type DashboardSummary struct {
	analytics.UserStatistics
	TodoTasks int `json:"todo_tasks"`
}

// ActivityItem is one entry of the recent-activity feed: a recently
// touched task in one of the user's projects.
type ActivityItem struct {
	analytics.UserTask
	UpdatedAt string `json:"updated_at"`
}

// Overview assembles the landing-page payload: the user's projects with
// roles, their assigned tasks, and cross-project statistics.
func (s *DashboardService) Overview(username string) (*DashboardOverview, error) {
	projects, err := s.projects.ListForUser(username)
	if err != nil {
		return nil, err
	}

	myTasks, err := s.analytics.UserTasks(username)
	if err != nil {
		return nil, errDatabase()
	}

	stats, err := s.analytics.UserStatistics(username)
	if err != nil {
		return nil, errDatabase()
	}

	return &DashboardOverview{
		Projects:   projects,
		MyTasks:    myTasks,
		Statistics: *stats,
	}, nil
}

// Summary is the compact statistics card.
func (s *DashboardService) Summary(username string) (*DashboardSummary, error) {
	stats, err := s.analytics.UserStatistics(username)
	if err != nil {
		return nil, errDatabase()
	}

	summary := &DashboardSummary{UserStatistics: *stats}
	summary.TodoTasks = stats.TotalTasks - stats.CompletedTasks - stats.InProgressTasks
	return summary, nil
}

// RecentActivity lists the most recently updated tasks across every
// project the user owns or belongs to, newest first.
func (s *DashboardService) RecentActivity(username string, limit int) ([]ActivityItem, error) {
	if limit <= 0 {
		limit = 10
	}

	projects, err := s.projects.ListForUser(username)
	if err != nil {
		return nil, err
	}

	var items []ActivityItem
	for _, p := range projects {
		tasks, err := s.store.ListTasksByProject(p.ID)
		if err != nil {
			return nil, errDatabase()
		}
		for _, t := range tasks {
			items = append(items, ActivityItem{
				UserTask:  analytics.UserTask{Task: t, ProjectName: p.Name},
				UpdatedAt: t.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Task.UpdatedAt.After(items[j].Task.UpdatedAt)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
