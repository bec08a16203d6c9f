package permission

import "fmt"

// Role is one of the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// ParseRole converts a stored role string into a [Role].
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleMember, RoleViewer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Permission is one of the closed set of actions a role may grant.
type Permission uint8

const (
	DependencyRead Permission = iota
	DependencyCreate
	DependencyUpdate
	DependencyDelete
	UpdateRequestCreate
	UpdateRequestReview
	NotificationRead
	NotificationManage
	TeamManage
	UserManage

	permissionCount
)

var permissionNames = [permissionCount]string{
	DependencyRead:      "dependency:read",
	DependencyCreate:    "dependency:create",
	DependencyUpdate:    "dependency:update",
	DependencyDelete:    "dependency:delete",
	UpdateRequestCreate: "update_request:create",
	UpdateRequestReview: "update_request:review",
	NotificationRead:    "notification:read",
	NotificationManage:  "notification:manage",
	TeamManage:          "team:manage",
	UserManage:          "user:manage",
}

func (p Permission) valid() bool {
	return p < permissionCount
}

func (p Permission) String() string {
	if !p.valid() {
		return fmt.Sprintf("permission(%d)", uint8(p))
	}
	return permissionNames[p]
}

// ParsePermission resolves a permission by its string name.
func ParsePermission(s string) (Permission, error) {
	for p := Permission(0); p < permissionCount; p++ {
		if permissionNames[p] == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown permission %q", s)
}

// AllPermissions lists every declared permission.
func AllPermissions() []Permission {
	out := make([]Permission, 0, permissionCount)
	for p := Permission(0); p < permissionCount; p++ {
		out = append(out, p)
	}
	return out
}

// DefaultRolePermissions is the static role to permission map.
var DefaultRolePermissions = map[Role]Mask64{
	RoleAdmin: Of(AllPermissions()...),
	RoleMember: Of(
		DependencyRead,
		DependencyCreate,
		DependencyUpdate,
		UpdateRequestCreate,
		NotificationRead,
	),
	RoleViewer: Of(
		DependencyRead,
		NotificationRead,
	),
}
