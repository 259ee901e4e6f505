package services

import (
	"errors"

	"github.com/projecthub/backend/internal/analytics"
	"github.com/projecthub/backend/internal/models"
	"github.com/projecthub/backend/internal/rbac"
	"github.com/projecthub/backend/internal/store"
)

type TaskService struct {
	store     store.Store
	authz     *AuthzService
	rbac      *rbac.Engine
	analytics *analytics.Engine
}

func NewTaskService(st store.Store, authz *AuthzService, rbacEngine *rbac.Engine, an *analytics.Engine) *TaskService {
	return &TaskService{store: st, authz: authz, rbac: rbacEngine, analytics: an}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// getProjectTask fetches a task scoped to a project. A task id that
// exists under a different project is reported as not-found, never as
// forbidden, so task ids do not leak across projects.
func (s *TaskService) getProjectTask(projectID, taskID uint) (*models.Task, error) {
	task, err := s.store.GetTask(taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errTaskNotFound(taskID)
		}
		return nil, errDatabase()
	}
	if task.ProjectID != projectID {
		return nil, errTaskNotFound(taskID)
	}
	return task, nil
}

// checkAssignee validates that an assignee is the owner or a member of
// the project, and that the caller may assign tasks to someone else.
func (s *TaskService) checkAssignee(projectID uint, actor, assignee string) error {
	role, err := s.authz.ResolveRole(assignee, projectID)
	if err != nil {
		return err
	}
	if role == rbac.RoleNone {
		return errInvalidData("cannot assign task to " + assignee + ": not a project member")
	}

	if assignee != actor {
		ok, err := s.rbac.CanAssignTask(actor, projectID)
		if err != nil {
			return errDatabase()
		}
		if !ok {
			return errInsufficientPermissions("assign tasks to other members")
		}
	}
	return nil
}

// Create adds a task to the project and recomputes its progress.
func (s *TaskService) Create(projectID uint, username string, req *CreateTaskRequest) (*models.Task, error) {
	if _, err := s.authz.RequirePermission(username, projectID, rbac.PermCreateTask, "create tasks"); err != nil {
		return nil, err
	}

	status := models.TaskTodo
	if req.Status != "" {
		status = models.TaskStatus(req.Status)
		if !status.IsValid() {
			return nil, errInvalidData("invalid task status: " + req.Status)
		}
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.TaskPriority(req.Priority)
		if !priority.IsValid() {
			return nil, errInvalidData("invalid task priority: " + req.Priority)
		}
	}

	if req.AssignedTo != "" {
		if err := s.checkAssignee(projectID, username, req.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      status,
		Priority:    priority,
	}
	if err := s.store.CreateTask(task); err != nil {
		return nil, errDatabase()
	}

	if _, err := s.analytics.CalculateProjectProgress(projectID); err != nil {
		return nil, errDatabase()
	}
	return task, nil
}

// List returns all tasks in the project.
func (s *TaskService) List(projectID uint, username string) ([]models.Task, error) {
	if _, err := s.authz.RequirePermission(username, projectID, rbac.PermViewTask, "view tasks"); err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasksByProject(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	return tasks, nil
}

// Get returns one task.
func (s *TaskService) Get(projectID, taskID uint, username string) (*models.Task, error) {
	if _, err := s.authz.RequirePermission(username, projectID, rbac.PermViewTask, "view tasks"); err != nil {
		return nil, err
	}
	return s.getProjectTask(projectID, taskID)
}

// Update applies a partial update subject to the ownership-sensitive
// edit rule. Progress is recomputed when the status changes.
func (s *TaskService) Update(projectID, taskID uint, username string, req *UpdateTaskRequest) (*models.Task, error) {
	if req.Title == nil && req.Description == nil && req.AssignedTo == nil &&
		req.Status == nil && req.Priority == nil {
		return nil, errInvalidData("no fields to update")
	}

	if _, err := s.authz.CheckProjectAccess(projectID, username, false); err != nil {
		return nil, err
	}

	task, err := s.getProjectTask(projectID, taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.rbac.CanEditTask(username, projectID, task.AssignedTo)
	if err != nil {
		return nil, errDatabase()
	}
	if !ok {
		return nil, errInsufficientPermissions("edit this task")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, errInvalidData("task title cannot be empty")
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssignedTo != nil && *req.AssignedTo != task.AssignedTo {
		if *req.AssignedTo != "" {
			if err := s.checkAssignee(projectID, username, *req.AssignedTo); err != nil {
				return nil, err
			}
		}
		task.AssignedTo = *req.AssignedTo
	}

	statusChanged := false
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		if !status.IsValid() {
			return nil, errInvalidData("invalid task status: " + *req.Status)
		}
		statusChanged = status != task.Status
		task.Status = status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		if !priority.IsValid() {
			return nil, errInvalidData("invalid task priority: " + *req.Priority)
		}
		task.Priority = priority
	}

	if err := s.store.SaveTask(task); err != nil {
		return nil, errDatabase()
	}

	if statusChanged {
		if _, err := s.analytics.CalculateProjectProgress(projectID); err != nil {
			return nil, errDatabase()
		}
	}
	return task, nil
}

// UpdateStatus changes only the status. It is allowed for roles holding
// UPDATE_TASK_STATUS and, regardless of role, for the task's current
// assignee.
func (s *TaskService) UpdateStatus(projectID, taskID uint, username string, req *UpdateTaskStatusRequest) (*models.Task, error) {
	status := models.TaskStatus(req.Status)
	if !status.IsValid() {
		return nil, errInvalidData("invalid task status: " + req.Status)
	}

	if _, err := s.authz.CheckProjectAccess(projectID, username, false); err != nil {
		return nil, err
	}

	task, err := s.getProjectTask(projectID, taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.rbac.CanUpdateTaskStatus(username, projectID, task.AssignedTo)
	if err != nil {
		return nil, errDatabase()
	}
	if !ok {
		return nil, errInsufficientPermissions("update this task's status")
	}

	task.Status = status
	if err := s.store.SaveTask(task); err != nil {
		return nil, errDatabase()
	}

	if _, err := s.analytics.CalculateProjectProgress(projectID); err != nil {
		return nil, errDatabase()
	}
	return task, nil
}

// Delete removes a task (owner and manager only) and recomputes the
// project progress.
func (s *TaskService) Delete(projectID, taskID uint, username string) error {
	if _, err := s.authz.CheckProjectAccess(projectID, username, false); err != nil {
		return err
	}

	if _, err := s.getProjectTask(projectID, taskID); err != nil {
		return err
	}

	ok, err := s.rbac.CanDeleteTask(username, projectID)
	if err != nil {
		return errDatabase()
	}
	if !ok {
		return errInsufficientPermissions("delete this task")
	}

	if err := s.store.DeleteTask(taskID); err != nil {
		return errDatabase()
	}

	if _, err := s.analytics.CalculateProjectProgress(projectID); err != nil {
		return errDatabase()
	}
	return nil
}
