package rbac

// Role is a named privilege level a user holds within one project.
// RoleNone means the user has no resolvable role (not a member).
type Role string

const (
	RoleOwner     Role = "owner"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
	RoleViewer    Role = "viewer"
	RoleNone      Role = ""
)

// ParseRole validates a role string against the fixed enumerated set.
// Unknown strings return (RoleNone, false); permission checks on
// RoleNone always fail closed.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleManager, RoleDeveloper, RoleViewer:
		return Role(s), true
	}
	return RoleNone, false
}

// ValidRoles returns the assignable role set in privilege order.
func ValidRoles() []Role {
	return []Role{RoleOwner, RoleManager, RoleDeveloper, RoleViewer}
}

// Permission is an atomic allowed action checked against a role.
type Permission string

const (
	PermCreateProject    Permission = "create_project"
	PermEditProject      Permission = "edit_project"
	PermDeleteProject    Permission = "delete_project"
	PermViewProject      Permission = "view_project"
	PermCreateTask       Permission = "create_task"
	PermEditTask         Permission = "edit_task"
	PermDeleteTask       Permission = "delete_task"
	PermViewTask         Permission = "view_task"
	PermAssignTask       Permission = "assign_task"
	PermUpdateTaskStatus Permission = "update_task_status"
	PermManageTeam       Permission = "manage_team"
	PermAddMember        Permission = "add_member"
	PermRemoveMember     Permission = "remove_member"
	PermUpdateRole       Permission = "update_role"
	PermViewAnalytics    Permission = "view_analytics"
)

// rolePermissions is the static role→permission table, fixed at process
// start and never persisted.
var rolePermissions = map[Role]map[Permission]bool{
	RoleOwner: {
		PermCreateProject:    true,
		PermEditProject:      true,
		PermDeleteProject:    true,
		PermViewProject:      true,
		PermCreateTask:       true,
		PermEditTask:         true,
		PermDeleteTask:       true,
		PermViewTask:         true,
		PermAssignTask:       true,
		PermUpdateTaskStatus: true,
		PermManageTeam:       true,
		PermAddMember:        true,
		PermRemoveMember:     true,
		PermUpdateRole:       true,
		PermViewAnalytics:    true,
	},
	RoleManager: {
		PermEditProject:      true,
		PermViewProject:      true,
		PermCreateTask:       true,
		PermEditTask:         true,
		PermDeleteTask:       true,
		PermViewTask:         true,
		PermAssignTask:       true,
		PermUpdateTaskStatus: true,
		PermAddMember:        true,
		PermViewAnalytics:    true,
	},
	RoleDeveloper: {
		PermViewProject:      true,
		PermCreateTask:       true,
		PermViewTask:         true,
		PermUpdateTaskStatus: true,
	},
	RoleViewer: {
		PermViewProject: true,
		PermViewTask:    true,
	},
}

// HasPermission reports whether the role grants the permission. Unknown
// roles (including RoleNone) have no permissions.
func HasPermission(role Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[perm]
}

// PermissionsFor returns the permission set granted to a role, in the
// enumeration order of the permission constants.
func PermissionsFor(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	all := []Permission{
		PermCreateProject, PermEditProject, PermDeleteProject, PermViewProject,
		PermCreateTask, PermEditTask, PermDeleteTask, PermViewTask,
		PermAssignTask, PermUpdateTaskStatus,
		PermManageTeam, PermAddMember, PermRemoveMember, PermUpdateRole,
		PermViewAnalytics,
	}
	var out []Permission
	for _, p := range all {
		if perms[p] {
			out = append(out, p)
		}
	}
	return out
}
