package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/projecthub/backend/internal/middleware"
	"github.com/projecthub/backend/internal/services"
	"github.com/projecthub/backend/pkg/response"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns all tasks in a project
// GET /api/projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tasks, err := h.taskService.List(projectID, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tasks)
}

// GetByID returns one task
// GET /api/projects/:id/tasks/:task_id
func (h *TaskHandler) GetByID(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(projectID, taskID, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, task)
}

// Create creates a task in a project
// POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(projectID, middleware.GetUsername(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, task)
}

// Update applies a partial task update
// PUT /api/projects/:id/tasks/:task_id
func (h *TaskHandler) Update(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(projectID, taskID, middleware.GetUsername(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, task)
}

// UpdateStatus changes only the task status
// PATCH /api/projects/:id/tasks/:task_id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}

	var req services.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateStatus(projectID, taskID, middleware.GetUsername(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, task)
}

// Delete deletes a task
// DELETE /api/projects/:id/tasks/:task_id
func (h *TaskHandler) Delete(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(projectID, taskID, middleware.GetUsername(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "task deleted successfully"})
}
