package analytics

import (
	"errors"
	"math"
	"time"

	"github.com/projecthub/backend/internal/models"
	"github.com/projecthub/backend/internal/rbac"
	"github.com/projecthub/backend/internal/store"
)

// Engine derives progress, productivity, and timeline metrics from a
// project's task and membership sets. All operations are pure reads
// except CalculateProjectProgress, which writes the derived progress
// back to the project row.
type Engine struct {
	store store.Store
	rbac  *rbac.Engine
}

func NewEngine(st store.Store, rbacEngine *rbac.Engine) *Engine {
	return &Engine{store: st, rbac: rbacEngine}
}

type CompletionRate struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Todo       int `json:"todo"`
}

type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type MemberProductivity struct {
	Username              string  `json:"username"`
	Role                  string  `json:"role"`
	TasksAssigned         int     `json:"tasks_assigned"`
	TasksCompleted        int     `json:"tasks_completed"`
	CompletionRate        float64 `json:"completion_rate"`
	AverageCompletionDays float64 `json:"average_completion_time"`
}

type MemberDetail struct {
	Username              string  `json:"username"`
	Role                  string  `json:"role"`
	Total                 int     `json:"total"`
	Completed             int     `json:"completed"`
	InProgress            int     `json:"in_progress"`
	Todo                  int     `json:"todo"`
	CompletionRate        float64 `json:"completion_rate"`
	AverageCompletionDays float64 `json:"average_completion_time"`
}

type TimelinePoint struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Progress  int    `json:"progress"`
}

type UserStatistics struct {
	TotalProjects   int `json:"total_projects"`
	TotalTasks      int `json:"total_tasks"`
	CompletedTasks  int `json:"completed_tasks"`
	InProgressTasks int `json:"in_progress_tasks"`
}

// UserTask is a task enriched with its project name, for the
// cross-project task listing.
type UserTask struct {
	models.Task
	ProjectName string `json:"project_name"`
}

func (e *Engine) getProject(projectID uint) (*models.Project, error) {
	project, err := e.store.GetProject(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, rbac.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// CalculateProjectProgress recomputes the project's progress as
// floor(100 * completed / total), 0 when the project has no tasks, and
// persists it. This is the only mutation point for Project.Progress; it
// must run after every task creation, deletion, and status change.
func (e *Engine) CalculateProjectProgress(projectID uint) (int, error) {
	if _, err := e.getProject(projectID); err != nil {
		return 0, err
	}

	tasks, err := e.store.ListTasksByProject(projectID)
	if err != nil {
		return 0, err
	}

	progress := 0
	if len(tasks) > 0 {
		completed := 0
		for _, t := range tasks {
			if t.Status == models.TaskCompleted {
				completed++
			}
		}
		progress = 100 * completed / len(tasks)
	}

	if err := e.store.SetProjectProgress(projectID, progress); err != nil {
		return 0, err
	}
	return progress, nil
}

// TaskCompletionRate returns plain counts by status.
func (e *Engine) TaskCompletionRate(projectID uint) (*CompletionRate, error) {
	if _, err := e.getProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := e.store.ListTasksByProject(projectID)
	if err != nil {
		return nil, err
	}

	rate := &CompletionRate{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			rate.Completed++
		case models.TaskInProgress:
			rate.InProgress++
		case models.TaskTodo:
			rate.Todo++
		}
	}
	return rate, nil
}

// TasksByPriority counts tasks per priority bucket. Tasks with an
// unrecognized priority are excluded from every bucket.
func (e *Engine) TasksByPriority(projectID uint) (*PriorityBreakdown, error) {
	if _, err := e.getProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := e.store.ListTasksByProject(projectID)
	if err != nil {
		return nil, err
	}

	breakdown := &PriorityBreakdown{}
	for _, t := range tasks {
		switch t.Priority {
		case models.PriorityHigh:
			breakdown.High++
		case models.PriorityMedium:
			breakdown.Medium++
		case models.PriorityLow:
			breakdown.Low++
		}
	}
	return breakdown, nil
}

// TeamProductivity reports per-member metrics for the owner plus every
// team member.
func (e *Engine) TeamProductivity(projectID uint) ([]MemberProductivity, error) {
	project, err := e.getProject(projectID)
	if err != nil {
		return nil, err
	}

	members, err := e.store.ListMembersByProject(projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := e.store.ListTasksByProject(projectID)
	if err != nil {
		return nil, err
	}

	type entry struct {
		username string
		role     string
	}
	entries := []entry{{project.OwnerID, string(rbac.RoleOwner)}}
	for _, m := range members {
		entries = append(entries, entry{m.Username, m.Role})
	}

	out := make([]MemberProductivity, 0, len(entries))
	for _, en := range entries {
		assigned, completed, avgDays := memberTaskStats(tasks, en.username)
		out = append(out, MemberProductivity{
			Username:              en.username,
			Role:                  en.role,
			TasksAssigned:         assigned,
			TasksCompleted:        completed,
			CompletionRate:        completionPercent(completed, assigned),
			AverageCompletionDays: avgDays,
		})
	}
	return out, nil
}

// ProjectTimeline builds one point per calendar day from (now - days) to
// today. A task counts as completed for a bucket when its status is
// completed and its updated_at date is on or before the bucket date.
// The denominator is the current total task count for every bucket.
func (e *Engine) ProjectTimeline(projectID uint, days int) ([]TimelinePoint, error) {
	if _, err := e.getProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := e.store.ListTasksByProject(projectID)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = 30
	}

	total := len(tasks)
	// Anchor buckets on the local calendar day; Truncate would snap to
	// UTC boundaries and mislabel completions near midnight.
	now := time.Now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	points := make([]TimelinePoint, 0, days+1)
	for i := days; i >= 0; i-- {
		bucket := today.AddDate(0, 0, -i)
		bucketEnd := bucket.AddDate(0, 0, 1)

		completed := 0
		for _, t := range tasks {
			if t.Status == models.TaskCompleted && t.UpdatedAt.Before(bucketEnd) {
				completed++
			}
		}

		progress := 0
		if total > 0 {
			progress = 100 * completed / total
		}

		points = append(points, TimelinePoint{
			Date:      bucket.Format("2006-01-02"),
			Completed: completed,
			Total:     total,
			Progress:  progress,
		})
	}
	return points, nil
}

// MemberAnalytics returns a single member's role and task metrics within
// one project. An unresolved role is reported as "none".
func (e *Engine) MemberAnalytics(projectID uint, username string) (*MemberDetail, error) {
	role, err := e.rbac.ResolveRole(username, projectID)
	if err != nil {
		return nil, err
	}
	roleName := string(role)
	if role == rbac.RoleNone {
		roleName = "none"
	}

	tasks, err := e.store.ListProjectTasksByAssignee(projectID, username)
	if err != nil {
		return nil, err
	}

	detail := &MemberDetail{Username: username, Role: roleName, Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			detail.Completed++
		case models.TaskInProgress:
			detail.InProgress++
		case models.TaskTodo:
			detail.Todo++
		}
	}
	detail.CompletionRate = completionPercent(detail.Completed, detail.Total)
	detail.AverageCompletionDays = averageCompletionDays(tasks)
	return detail, nil
}

// MemberWorkload returns the status counts for one member's tasks in a
// project.
func (e *Engine) MemberWorkload(projectID uint, username string) (*CompletionRate, error) {
	if _, err := e.getProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := e.store.ListProjectTasksByAssignee(projectID, username)
	if err != nil {
		return nil, err
	}

	workload := &CompletionRate{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			workload.Completed++
		case models.TaskInProgress:
			workload.InProgress++
		case models.TaskTodo:
			workload.Todo++
		}
	}
	return workload, nil
}

// UserStatistics aggregates a user's footprint across all projects:
// distinct projects owned or joined, and task counts over every project.
func (e *Engine) UserStatistics(username string) (*UserStatistics, error) {
	owned, err := e.store.ListProjectsByOwner(username)
	if err != nil {
		return nil, err
	}

	memberships, err := e.store.ListMembershipsByUser(username)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	for _, p := range owned {
		seen[p.ID] = true
	}
	for _, m := range memberships {
		seen[m.ProjectID] = true
	}

	tasks, err := e.store.ListTasksByAssignee(username)
	if err != nil {
		return nil, err
	}

	stats := &UserStatistics{
		TotalProjects: len(seen),
		TotalTasks:    len(tasks),
	}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			stats.CompletedTasks++
		case models.TaskInProgress:
			stats.InProgressTasks++
		}
	}
	return stats, nil
}

// UserTasks lists every task assigned to the user across all projects,
// each enriched with its project name.
func (e *Engine) UserTasks(username string) ([]UserTask, error) {
	tasks, err := e.store.ListTasksByAssignee(username)
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string)
	out := make([]UserTask, 0, len(tasks))
	for _, t := range tasks {
		name, ok := names[t.ProjectID]
		if !ok {
			if p, err := e.store.GetProject(t.ProjectID); err == nil {
				name = p.Name
			}
			names[t.ProjectID] = name
		}
		out = append(out, UserTask{Task: t, ProjectName: name})
	}
	return out, nil
}

func memberTaskStats(tasks []models.Task, username string) (assigned, completed int, avgDays float64) {
	var own []models.Task
	for _, t := range tasks {
		if t.AssignedTo == username {
			own = append(own, t)
			if t.Status == models.TaskCompleted {
				completed++
			}
		}
	}
	return len(own), completed, averageCompletionDays(own)
}

// completionDays computes how many whole days a completed task took.
// Returns false for tasks without usable timestamps or with a negative
// duration (clock skew); those are skipped, not counted as zero.
func completionDays(t models.Task) (int, bool) {
	if t.CreatedAt.IsZero() || t.UpdatedAt.IsZero() {
		return 0, false
	}
	d := t.UpdatedAt.Sub(t.CreatedAt)
	if d < 0 {
		return 0, false
	}
	return int(d.Hours() / 24), true
}

// averageCompletionDays is the mean of completionDays over completed
// tasks with valid durations, rounded to 1 decimal; 0.0 with no samples.
func averageCompletionDays(tasks []models.Task) float64 {
	sum := 0
	count := 0
	for _, t := range tasks {
		if t.Status != models.TaskCompleted {
			continue
		}
		days, ok := completionDays(t)
		if !ok {
			continue
		}
		sum += days
		count++
	}
	if count == 0 {
		return 0.0
	}
	return round1(float64(sum) / float64(count))
}

// completionPercent is 100*completed/assigned rounded to 2 decimals,
// 0 when nothing is assigned.
func completionPercent(completed, assigned int) float64 {
	if assigned == 0 {
		return 0
	}
	return round2(100 * float64(completed) / float64(assigned))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
