package rbac

import (
	"errors"

	"github.com/projecthub/backend/internal/store"
)

// ErrProjectNotFound is returned by role resolution when the project id
// does not exist. Callers must surface it before any permission logic.
var ErrProjectNotFound = errors.New("project not found")

// Engine resolves per-project roles and evaluates the ownership-sensitive
// task rules. It is stateless and safe for concurrent use.
type Engine struct {
	store store.Store
}

func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// ResolveRole determines username's role within the project. The owner
// check takes precedence and never touches the membership table. A user
// with no membership resolves to RoleNone without error.
func (e *Engine) ResolveRole(username string, projectID uint) (Role, error) {
	project, err := e.store.GetProject(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RoleNone, ErrProjectNotFound
		}
		return RoleNone, err
	}

	if project.OwnerID == username {
		return RoleOwner, nil
	}

	member, err := e.store.GetMember(projectID, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}

	// Unknown role strings in the store fail closed.
	role, _ := ParseRole(member.Role)
	return role, nil
}

// CanEditTask applies the ownership-sensitive edit rule: owner and
// manager may edit any task; a developer only their own (string equality
// on assignee; an unassigned task is not editable by any developer).
func (e *Engine) CanEditTask(username string, projectID uint, taskAssignee string) (bool, error) {
	role, err := e.ResolveRole(username, projectID)
	if err != nil {
		return false, err
	}

	switch role {
	case RoleOwner, RoleManager:
		return true, nil
	case RoleDeveloper:
		return taskAssignee != "" && taskAssignee == username, nil
	}
	return false, nil
}

// CanDeleteTask is true only for owner and manager; the task's assignee
// is irrelevant.
func (e *Engine) CanDeleteTask(username string, projectID uint) (bool, error) {
	role, err := e.ResolveRole(username, projectID)
	if err != nil {
		return false, err
	}
	return role == RoleOwner || role == RoleManager, nil
}

// CanAssignTask is a plain permission check for ASSIGN_TASK.
func (e *Engine) CanAssignTask(username string, projectID uint) (bool, error) {
	role, err := e.ResolveRole(username, projectID)
	if err != nil {
		return false, err
	}
	return HasPermission(role, PermAssignTask), nil
}

// CanUpdateTaskStatus allows a status update when the role grants
// UPDATE_TASK_STATUS or the caller is the task's current assignee. This
// is the one place role-based and ownership-based authorization are
// ORed together.
func (e *Engine) CanUpdateTaskStatus(username string, projectID uint, taskAssignee string) (bool, error) {
	role, err := e.ResolveRole(username, projectID)
	if err != nil {
		return false, err
	}
	if HasPermission(role, PermUpdateTaskStatus) {
		return true, nil
	}
	return taskAssignee != "" && taskAssignee == username, nil
}
