package services

import (
	"errors"

	"github.com/projecthub/backend/internal/models"
	"github.com/projecthub/backend/internal/rbac"
	"github.com/projecthub/backend/internal/store"
)

// AuthzService composes the RBAC engine into the two access-check
// patterns used by every operation: project access (exists? owner or
// member?) and permission-gated checks. Failed checks always return a
// typed error, never a bare boolean.
type AuthzService struct {
	store store.Store
	rbac  *rbac.Engine
}

func NewAuthzService(st store.Store, rbacEngine *rbac.Engine) *AuthzService {
	return &AuthzService{store: st, rbac: rbacEngine}
}

// CheckProjectAccess verifies that the project exists and that username
// is its owner or a member. Existence is always checked first so a
// missing project is reported as not-found rather than forbidden. With
// requireOwner set, membership is not enough.
func (s *AuthzService) CheckProjectAccess(projectID uint, username string, requireOwner bool) (*models.Project, error) {
	project, err := s.store.GetProject(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errProjectNotFound(projectID)
		}
		return nil, errDatabase()
	}

	if project.OwnerID == username {
		return project, nil
	}
	if requireOwner {
		return nil, errUnauthorizedAccess()
	}

	if _, err := s.store.GetMember(projectID, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errUnauthorizedAccess()
		}
		return nil, errDatabase()
	}
	return project, nil
}

// RequirePermission resolves username's role in the project and checks
// it against the required permission. The action string is used in the
// denial message.
func (s *AuthzService) RequirePermission(username string, projectID uint, perm rbac.Permission, action string) (rbac.Role, error) {
	role, err := s.rbac.ResolveRole(username, projectID)
	if err != nil {
		if errors.Is(err, rbac.ErrProjectNotFound) {
			return rbac.RoleNone, errProjectNotFound(projectID)
		}
		return rbac.RoleNone, errDatabase()
	}

	if !rbac.HasPermission(role, perm) {
		return rbac.RoleNone, errInsufficientPermissions(action)
	}
	return role, nil
}

// ResolveRole exposes role resolution with store errors translated to
// the service error taxonomy.
func (s *AuthzService) ResolveRole(username string, projectID uint) (rbac.Role, error) {
	role, err := s.rbac.ResolveRole(username, projectID)
	if err != nil {
		if errors.Is(err, rbac.ErrProjectNotFound) {
			return rbac.RoleNone, errProjectNotFound(projectID)
		}
		return rbac.RoleNone, errDatabase()
	}
	return role, nil
}
