package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

var (
	_ model.RBACStore  = (*RBACRepository)(nil)
	_ model.ScopeStore = (*RBACRepository)(nil)
)

// RBACRepository is the in-memory model.RBACStore and model.ScopeStore.
// Deleting a role or permission cascades to its links.
type RBACRepository struct {
	db *DB
}

func sortedByID[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func lookup[T any](m map[int64]T, id int64) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, model.ErrNotFound
	}
	return v, nil
}

func (r *RBACRepository) CreateRole(_ context.Context, role model.Role) (model.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.roles {
		if existing.Name == role.Name {
			return model.Role{}, model.ErrConflict
		}
	}
	role.ID = r.db.nextID()
	r.db.roles[role.ID] = role
	return role, nil
}

func (r *RBACRepository) ListRoles(_ context.Context) ([]model.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return sortedByID(r.db.roles), nil
}

func (r *RBACRepository) GetRole(_ context.Context, id int64) (model.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return lookup(r.db.roles, id)
}

func (r *RBACRepository) GetRoleByName(_ context.Context, name string) (model.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, role := range r.db.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return model.Role{}, model.ErrNotFound
}

func (r *RBACRepository) UpdateRole(_ context.Context, role model.Role) (model.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.roles[role.ID]; !ok {
		return model.Role{}, model.ErrNotFound
	}
	for _, existing := range r.db.roles {
		if existing.ID != role.ID && existing.Name == role.Name {
			return model.Role{}, model.ErrConflict
		}
	}
	r.db.roles[role.ID] = role
	return role, nil
}

func (r *RBACRepository) DeleteRole(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.roles[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.db.roles, id)
	for linkID, link := range r.db.rolePerms {
		if link.RoleID == id {
			delete(r.db.rolePerms, linkID)
		}
	}
	for linkID, link := range r.db.userRoles {
		if link.RoleID == id {
			delete(r.db.userRoles, linkID)
		}
	}
	return nil
}

func (r *RBACRepository) CreatePermission(_ context.Context, perm model.Permission) (model.Permission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.permissionExistsLocked(perm) {
		return model.Permission{}, model.ErrConflict
	}
	perm.ID = r.db.nextID()
	r.db.perms[perm.ID] = perm
	return perm, nil
}

func (r *RBACRepository) ListPermissions(_ context.Context) ([]model.Permission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return sortedByID(r.db.perms), nil
}

func (r *RBACRepository) GetPermission(_ context.Context, id int64) (model.Permission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return lookup(r.db.perms, id)
}

func (r *RBACRepository) FindPermission(_ context.Context, resource, action string, scope model.Scope) (model.Permission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, perm := range r.db.perms {
		if perm.Resource == resource && perm.Action == action && perm.Scope == scope {
			return perm, nil
		}
	}
	return model.Permission{}, model.ErrNotFound
}

func (r *RBACRepository) UpdatePermission(_ context.Context, perm model.Permission) (model.Permission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.perms[perm.ID]; !ok {
		return model.Permission{}, model.ErrNotFound
	}
	if r.permissionExistsLocked(perm) {
		return model.Permission{}, model.ErrConflict
	}
	r.db.perms[perm.ID] = perm
	return perm, nil
}

func (r *RBACRepository) DeletePermission(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.perms[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.db.perms, id)
	for linkID, link := range r.db.rolePerms {
		if link.PermissionID == id {
			delete(r.db.rolePerms, linkID)
		}
	}
	return nil
}

func (r *RBACRepository) CreateRolePermission(_ context.Context, link model.RolePermission) (model.RolePermission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.roles[link.RoleID]; !ok {
		return model.RolePermission{}, model.ErrInvalidInput
	}
	if _, ok := r.db.perms[link.PermissionID]; !ok {
		return model.RolePermission{}, model.ErrInvalidInput
	}
	for _, existing := range r.db.rolePerms {
		if existing.RoleID == link.RoleID && existing.PermissionID == link.PermissionID {
			return model.RolePermission{}, model.ErrConflict
		}
	}
	link.ID = r.db.nextID()
	r.db.rolePerms[link.ID] = link
	return link, nil
}

func (r *RBACRepository) ListRolePermissions(_ context.Context) ([]model.RolePermission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return sortedByID(r.db.rolePerms), nil
}

func (r *RBACRepository) GetRolePermission(_ context.Context, id int64) (model.RolePermission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return lookup(r.db.rolePerms, id)
}

func (r *RBACRepository) DeleteRolePermission(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.rolePerms[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.db.rolePerms, id)
	return nil
}

func (r *RBACRepository) CreateUserRole(_ context.Context, link model.UserRole) (model.UserRole, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[link.UserID]; !ok {
		return model.UserRole{}, model.ErrInvalidInput
	}
	if _, ok := r.db.roles[link.RoleID]; !ok {
		return model.UserRole{}, model.ErrInvalidInput
	}
	for _, existing := range r.db.userRoles {
		if existing.UserID == link.UserID && existing.RoleID == link.RoleID {
			return model.UserRole{}, model.ErrConflict
		}
	}
	link.ID = r.db.nextID()
	r.db.userRoles[link.ID] = link
	return link, nil
}

func (r *RBACRepository) ListUserRoles(_ context.Context) ([]model.UserRole, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return sortedByID(r.db.userRoles), nil
}

func (r *RBACRepository) GetUserRole(_ context.Context, id int64) (model.UserRole, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return lookup(r.db.userRoles, id)
}

func (r *RBACRepository) DeleteUserRole(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.userRoles[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.db.userRoles, id)
	return nil
}

func (r *RBACRepository) ScopesFor(_ context.Context, userID uuid.UUID, resource, action string) ([]model.Scope, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok || !u.CanAuthenticate() {
		return nil, nil
	}

	var scopes []model.Scope
	for _, ur := range r.db.userRoles {
		if ur.UserID != userID {
			continue
		}
		for _, rp := range r.db.rolePerms {
			if rp.RoleID != ur.RoleID {
				continue
			}
			perm := r.db.perms[rp.PermissionID]
			if perm.Resource == resource && perm.Action == action {
				scopes = append(scopes, perm.Scope)
			}
		}
	}
	return scopes, nil
}

func (r *RBACRepository) permissionExistsLocked(perm model.Permission) bool {
	for _, existing := range r.db.perms {
		if existing.ID != perm.ID &&
			existing.Resource == perm.Resource &&
			existing.Action == perm.Action &&
			existing.Scope == perm.Scope {
			return true
		}
	}
	return false
}
