package domain

// Role identifies a level in the organization hierarchy.
type Role string

const (
	RoleRootAdmin  Role = "root_admin"
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleInstitute  Role = "institute"
)

// roleWeight orders roles by privilege; higher weight outranks lower.
var roleWeight = map[Role]int{
	RoleRootAdmin:  4,
	RoleSuperAdmin: 3,
	RoleAdmin:      2,
	RoleInstitute:  1,
}

// creatableRole maps a role to the single subordinate role it may create.
var creatableRole = map[Role]Role{
	RoleRootAdmin:  RoleSuperAdmin,
	RoleSuperAdmin: RoleAdmin,
	RoleAdmin:      RoleInstitute,
}

// Panel names the screen a role lands on after login.
type Panel string

const (
	PanelManager    Panel = "manager"
	PanelAdmin      Panel = "admin"
	PanelAttendance Panel = "attendance"
)

// IsValid reports whether the role belongs to the hierarchy.
func (r Role) IsValid() bool {
	_, ok := roleWeight[r]
	return ok
}

// Outranks reports whether r sits strictly above other in the hierarchy.
func (r Role) Outranks(other Role) bool {
	return roleWeight[r] > roleWeight[other]
}

// CreatableRole returns the subordinate role r may create, or false when
// creation is disabled for r (institute and unknown roles).
func (r Role) CreatableRole() (Role, bool) {
	target, ok := creatableRole[r]
	return target, ok
}

// CountField names the dashboard count meaningful for entries scoped to r.
// Institute entries carry member counts; every intermediate role carries the
// number of users it manages. The two are mutually exclusive per entry.
func (r Role) CountField() string {
	if r == RoleInstitute {
		return "memberCount"
	}
	return "managedUsers"
}

// HomePanel returns the screen the role is routed to after login.
func (r Role) HomePanel() (Panel, bool) {
	switch r {
	case RoleRootAdmin, RoleSuperAdmin:
		return PanelManager, true
	case RoleAdmin:
		return PanelAdmin, true
	case RoleInstitute:
		return PanelAttendance, true
	default:
		return "", false
	}
}
