package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.RBACStore = (*RBACRepository)(nil)

// RBACRepository stores administrator-owned reference data: roles,
// permissions and the links between them and users.
type RBACRepository struct {
	db *sql.DB
}

func NewRBACRepository(db *sql.DB) *RBACRepository {
	return &RBACRepository{db: db}
}

func (r *RBACRepository) get(ctx context.Context, dst any, op, query string, args ...any) error {
	if err := sqlscan.Get(ctx, r.db, dst, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return model.ErrNotFound
		}
		return mapError(err, op)
	}
	return nil
}

func (r *RBACRepository) delete(ctx context.Context, op, query string, id int64) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err, op)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *RBACRepository) CreateRole(ctx context.Context, role model.Role) (model.Role, error) {
	const query = `INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id, name, description`
	var saved model.Role
	if err := r.get(ctx, &saved, "create role", query, role.Name, role.Description); err != nil {
		return model.Role{}, err
	}
	return saved, nil
}

func (r *RBACRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	const query = `SELECT id, name, description FROM roles ORDER BY id`
	roles := []model.Role{}
	if err := sqlscan.Select(ctx, r.db, &roles, query); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (r *RBACRepository) GetRole(ctx context.Context, id int64) (model.Role, error) {
	const query = `SELECT id, name, description FROM roles WHERE id = $1`
	var role model.Role
	if err := r.get(ctx, &role, "get role", query, id); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (r *RBACRepository) GetRoleByName(ctx context.Context, name string) (model.Role, error) {
	const query = `SELECT id, name, description FROM roles WHERE name = $1`
	var role model.Role
	if err := r.get(ctx, &role, "get role by name", query, name); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (r *RBACRepository) UpdateRole(ctx context.Context, role model.Role) (model.Role, error) {
	const query = `UPDATE roles SET name = $2, description = $3 WHERE id = $1 RETURNING id, name, description`
	var saved model.Role
	if err := r.get(ctx, &saved, "update role", query, role.ID, role.Name, role.Description); err != nil {
		return model.Role{}, err
	}
	return saved, nil
}

func (r *RBACRepository) DeleteRole(ctx context.Context, id int64) error {
	return r.delete(ctx, "delete role", `DELETE FROM roles WHERE id = $1`, id)
}

func (r *RBACRepository) CreatePermission(ctx context.Context, perm model.Permission) (model.Permission, error) {
	const query = `INSERT INTO permissions (resource, action, scope) VALUES ($1, $2, $3)
				   RETURNING id, resource, action, scope`
	var saved model.Permission
	if err := r.get(ctx, &saved, "create permission", query, perm.Resource, perm.Action, string(perm.Scope)); err != nil {
		return model.Permission{}, err
	}
	return saved, nil
}

func (r *RBACRepository) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	const query = `SELECT id, resource, action, scope FROM permissions ORDER BY id`
	perms := []model.Permission{}
	if err := sqlscan.Select(ctx, r.db, &perms, query); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}

func (r *RBACRepository) GetPermission(ctx context.Context, id int64) (model.Permission, error) {
	const query = `SELECT id, resource, action, scope FROM permissions WHERE id = $1`
	var perm model.Permission
	if err := r.get(ctx, &perm, "get permission", query, id); err != nil {
		return model.Permission{}, err
	}
	return perm, nil
}

func (r *RBACRepository) FindPermission(ctx context.Context, resource, action string, scope model.Scope) (model.Permission, error) {
	const query = `SELECT id, resource, action, scope FROM permissions
				   WHERE resource = $1 AND action = $2 AND scope = $3`
	var perm model.Permission
	if err := r.get(ctx, &perm, "find permission", query, resource, action, string(scope)); err != nil {
		return model.Permission{}, err
	}
	return perm, nil
}

func (r *RBACRepository) UpdatePermission(ctx context.Context, perm model.Permission) (model.Permission, error) {
	const query = `UPDATE permissions SET resource = $2, action = $3, scope = $4 WHERE id = $1
				   RETURNING id, resource, action, scope`
	var saved model.Permission
	if err := r.get(ctx, &saved, "update permission", query, perm.ID, perm.Resource, perm.Action, string(perm.Scope)); err != nil {
		return model.Permission{}, err
	}
	return saved, nil
}

func (r *RBACRepository) DeletePermission(ctx context.Context, id int64) error {
	return r.delete(ctx, "delete permission", `DELETE FROM permissions WHERE id = $1`, id)
}

func (r *RBACRepository) CreateRolePermission(ctx context.Context, link model.RolePermission) (model.RolePermission, error) {
	const query = `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)
				   RETURNING id, role_id, permission_id`
	var saved model.RolePermission
	if err := r.get(ctx, &saved, "create role permission", query, link.RoleID, link.PermissionID); err != nil {
		return model.RolePermission{}, err
	}
	return saved, nil
}

func (r *RBACRepository) ListRolePermissions(ctx context.Context) ([]model.RolePermission, error) {
	const query = `SELECT id, role_id, permission_id FROM role_permissions ORDER BY id`
	links := []model.RolePermission{}
	if err := sqlscan.Select(ctx, r.db, &links, query); err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	return links, nil
}

func (r *RBACRepository) GetRolePermission(ctx context.Context, id int64) (model.RolePermission, error) {
	const query = `SELECT id, role_id, permission_id FROM role_permissions WHERE id = $1`
	var link model.RolePermission
	if err := r.get(ctx, &link, "get role permission", query, id); err != nil {
		return model.RolePermission{}, err
	}
	return link, nil
}

func (r *RBACRepository) DeleteRolePermission(ctx context.Context, id int64) error {
	return r.delete(ctx, "delete role permission", `DELETE FROM role_permissions WHERE id = $1`, id)
}

func (r *RBACRepository) CreateUserRole(ctx context.Context, link model.UserRole) (model.UserRole, error) {
	const query = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
				   RETURNING id, user_id, role_id`
	var saved model.UserRole
	if err := r.get(ctx, &saved, "create user role", query, link.UserID, link.RoleID); err != nil {
		return model.UserRole{}, err
	}
	return saved, nil
}

func (r *RBACRepository) ListUserRoles(ctx context.Context) ([]model.UserRole, error) {
	const query = `SELECT id, user_id, role_id FROM user_roles ORDER BY id`
	links := []model.UserRole{}
	if err := sqlscan.Select(ctx, r.db, &links, query); err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	return links, nil
}

func (r *RBACRepository) GetUserRole(ctx context.Context, id int64) (model.UserRole, error) {
	const query = `SELECT id, user_id, role_id FROM user_roles WHERE id = $1`
	var link model.UserRole
	if err := r.get(ctx, &link, "get user role", query, id); err != nil {
		return model.UserRole{}, err
	}
	return link, nil
}

func (r *RBACRepository) DeleteUserRole(ctx context.Context, id int64) error {
	return r.delete(ctx, "delete user role", `DELETE FROM user_roles WHERE id = $1`, id)
}
