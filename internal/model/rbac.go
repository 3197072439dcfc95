package model

import (
	"context"

	"github.com/google/uuid"
)

// Scope is the breadth of a granted permission.
type Scope string

const (
	// ScopeNone means no permission was granted.
	ScopeNone Scope = ""
	// ScopeOwn limits the permission to records owned by the caller.
	ScopeOwn Scope = "OWN"
	// ScopeAll grants the permission on every record.
	ScopeAll Scope = "ALL"
)

// Valid reports whether s can be stored on a permission.
func (s Scope) Valid() bool {
	return s == ScopeOwn || s == ScopeAll
}

func (s Scope) rank() int {
	switch s {
	case ScopeAll:
		return 2
	case ScopeOwn:
		return 1
	default:
		return 0
	}
}

// WidestScope reduces scopes with precedence ALL > OWN > none.
func WidestScope(scopes ...Scope) Scope {
	widest := ScopeNone
	for _, s := range scopes {
		if s.rank() > widest.rank() {
			widest = s
		}
	}
	return widest
}

// Role is a named policy group.
type Role struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Permission grants action on resource limited to scope.
type Permission struct {
	ID       int64  `db:"id" json:"id"`
	Resource string `db:"resource" json:"resource"`
	Action   string `db:"action" json:"action"`
	Scope    Scope  `db:"scope" json:"scope"`
}

// RolePermission grants a permission to a role.
type RolePermission struct {
	ID           int64 `db:"id" json:"id"`
	RoleID       int64 `db:"role_id" json:"role"`
	PermissionID int64 `db:"permission_id" json:"permission"`
}

// UserRole assigns a role to a user.
type UserRole struct {
	ID     int64     `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"user"`
	RoleID int64     `db:"role_id" json:"role"`
}

// RBACStore persists roles, permissions and their links.
type RBACStore interface {
	CreateRole(ctx context.Context, role Role) (Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	GetRoleByName(ctx context.Context, name string) (Role, error)
	UpdateRole(ctx context.Context, role Role) (Role, error)
	DeleteRole(ctx context.Context, id int64) error

	CreatePermission(ctx context.Context, perm Permission) (Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	GetPermission(ctx context.Context, id int64) (Permission, error)
	FindPermission(ctx context.Context, resource, action string, scope Scope) (Permission, error)
	UpdatePermission(ctx context.Context, perm Permission) (Permission, error)
	DeletePermission(ctx context.Context, id int64) error

	CreateRolePermission(ctx context.Context, link RolePermission) (RolePermission, error)
	ListRolePermissions(ctx context.Context) ([]RolePermission, error)
	GetRolePermission(ctx context.Context, id int64) (RolePermission, error)
	DeleteRolePermission(ctx context.Context, id int64) error

	CreateUserRole(ctx context.Context, link UserRole) (UserRole, error)
	ListUserRoles(ctx context.Context) ([]UserRole, error)
	GetUserRole(ctx context.Context, id int64) (UserRole, error)
	DeleteUserRole(ctx context.Context, id int64) error
}

// ScopeStore returns the scopes reachable by an active user through their
// roles for a resource and action.
type ScopeStore interface {
	ScopesFor(ctx context.Context, userID uuid.UUID, resource, action string) ([]Scope, error)
}
