package services

import (
	"errors"
	"time"

	"github.com/projecthub/backend/internal/models"
	"github.com/projecthub/backend/internal/rbac"
	"github.com/projecthub/backend/internal/store"
)

type TeamService struct {
	store store.Store
	authz *AuthzService
	rbac  *rbac.Engine
}

func NewTeamService(st store.Store, authz *AuthzService, rbacEngine *rbac.Engine) *TeamService {
	return &TeamService{store: st, authz: authz, rbac: rbacEngine}
}

type AddMemberRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// MemberInfo is a membership record; for the owner it is synthesized
// from the project row (AssignedAt absent).
type MemberInfo struct {
	Username   string     `json:"username"`
	Role       string     `json:"role"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
}

type MemberPermissions struct {
	Username    string            `json:"username"`
	Role        string            `json:"role"`
	Permissions []rbac.Permission `json:"permissions"`
}

// Add adds a member to the project team. Adding a username that already
// has a membership row updates their role in place; adding the owner is
// rejected since ownership is tracked on the project row. The role is
// validated before any store write.
func (s *TeamService) Add(projectID uint, actor string, req *AddMemberRequest) (*models.TeamMember, error) {
	if _, err := s.authz.RequirePermission(actor, projectID, rbac.PermAddMember, "add team members"); err != nil {
		return nil, err
	}

	role, ok := rbac.ParseRole(req.Role)
	if !ok {
		return nil, errInvalidRole(req.Role)
	}

	project, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	if req.Username == project.OwnerID {
		return nil, errInvalidData("the project owner is already a member and cannot be added to the team")
	}

	existing, err := s.store.GetMember(projectID, req.Username)
	if err == nil {
		// Idempotent upsert keyed on (project_id, username).
		existing.Role = string(role)
		if err := s.store.SaveMember(existing); err != nil {
			return nil, errDatabase()
		}
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, errDatabase()
	}

	member := &models.TeamMember{
		ProjectID:  projectID,
		Username:   req.Username,
		Role:       string(role),
		AssignedAt: time.Now(),
	}
	if err := s.store.CreateMember(member); err != nil {
		return nil, errDatabase()
	}
	return member, nil
}

// List returns the team roster including the implicit owner entry.
func (s *TeamService) List(projectID uint, actor string) ([]MemberInfo, error) {
	project, err := s.authz.CheckProjectAccess(projectID, actor, false)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembersByProject(projectID)
	if err != nil {
		return nil, errDatabase()
	}

	out := make([]MemberInfo, 0, len(members)+1)
	out = append(out, MemberInfo{Username: project.OwnerID, Role: string(rbac.RoleOwner)})
	for _, m := range members {
		assignedAt := m.AssignedAt
		out = append(out, MemberInfo{Username: m.Username, Role: m.Role, AssignedAt: &assignedAt})
	}
	return out, nil
}

// Get returns one member's record. The owner resolves to a synthetic
// owner record; anyone else without a membership row is not found.
func (s *TeamService) Get(projectID uint, actor, username string) (*MemberInfo, error) {
	project, err := s.authz.CheckProjectAccess(projectID, actor, false)
	if err != nil {
		return nil, err
	}

	if username == project.OwnerID {
		return &MemberInfo{Username: username, Role: string(rbac.RoleOwner)}, nil
	}

	member, err := s.store.GetMember(projectID, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errTeamMemberNotFound(username)
		}
		return nil, errDatabase()
	}
	assignedAt := member.AssignedAt
	return &MemberInfo{Username: member.Username, Role: member.Role, AssignedAt: &assignedAt}, nil
}

// UpdateRole changes a member's role. The owner's role is immutable.
func (s *TeamService) UpdateRole(projectID uint, actor, username string, req *UpdateMemberRoleRequest) (*models.TeamMember, error) {
	if _, err := s.authz.RequirePermission(actor, projectID, rbac.PermUpdateRole, "update member roles"); err != nil {
		return nil, err
	}

	role, ok := rbac.ParseRole(req.Role)
	if !ok {
		return nil, errInvalidRole(req.Role)
	}

	project, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, errDatabase()
	}
	if username == project.OwnerID {
		return nil, errInvalidData("the owner's role is tied to project ownership and cannot be changed")
	}

	member, err := s.store.GetMember(projectID, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errTeamMemberNotFound(username)
		}
		return nil, errDatabase()
	}

	member.Role = string(role)
	if err := s.store.SaveMember(member); err != nil {
		return nil, errDatabase()
	}
	return member, nil
}

// Remove deletes a membership row. The owner can never be removed, and
// the member's historical task assignments are left untouched.
func (s *TeamService) Remove(projectID uint, actor, username string) error {
	if _, err := s.authz.RequirePermission(actor, projectID, rbac.PermRemoveMember, "remove team members"); err != nil {
		return err
	}

	project, err := s.store.GetProject(projectID)
	if err != nil {
		return errDatabase()
	}
	if username == project.OwnerID {
		return errCannotRemoveOwner()
	}

	member, err := s.store.GetMember(projectID, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errTeamMemberNotFound(username)
		}
		return errDatabase()
	}

	if err := s.store.DeleteMember(member.ID); err != nil {
		return errDatabase()
	}
	return nil
}

// Permissions lists the permission set a member's role grants.
func (s *TeamService) Permissions(projectID uint, actor, username string) (*MemberPermissions, error) {
	if _, err := s.authz.CheckProjectAccess(projectID, actor, false); err != nil {
		return nil, err
	}

	role, err := s.authz.ResolveRole(username, projectID)
	if err != nil {
		return nil, err
	}
	if role == rbac.RoleNone {
		return nil, errTeamMemberNotFound(username)
	}

	return &MemberPermissions{
		Username:    username,
		Role:        string(role),
		Permissions: rbac.PermissionsFor(role),
	}, nil
}
