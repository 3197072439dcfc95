package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

const maxNameLength = 50

// RoleUpdate is a partial role update. Nil fields are left untouched.
type RoleUpdate struct {
	Name        *string
	Description *string
}

// PermissionUpdate is a partial permission update. Nil fields are left untouched.
type PermissionUpdate struct {
	Resource *string
	Action   *string
	Scope    *model.Scope
}

// RBAC administers roles, permissions and their assignments.
type RBAC struct {
	store  model.RBACStore
	logger *logger.Logger
}

func NewRBAC(store model.RBACStore, logger *logger.Logger) *RBAC {
	return &RBAC{store: store, logger: logger}
}

func (s *RBAC) CreateRole(ctx context.Context, name, description string) (model.Role, error) {
	role := model.Role{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := validateName("name", role.Name); err != nil {
		return model.Role{}, err
	}

	created, err := s.store.CreateRole(ctx, role)
	if err != nil {
		return model.Role{}, err
	}
	s.logger.Info("RBAC service: role created",
		"role_id", created.ID,
		"name", created.Name)
	return created, nil
}

func (s *RBAC) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.store.ListRoles(ctx)
}

func (s *RBAC) GetRole(ctx context.Context, id int64) (model.Role, error) {
	if err := validateID("role id", id); err != nil {
		return model.Role{}, err
	}
	return s.store.GetRole(ctx, id)
}

func (s *RBAC) UpdateRole(ctx context.Context, id int64, upd RoleUpdate) (model.Role, error) {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return model.Role{}, err
	}
	if upd.Name != nil {
		role.Name = strings.TrimSpace(*upd.Name)
		if err := validateName("name", role.Name); err != nil {
			return model.Role{}, err
		}
	}
	if upd.Description != nil {
		role.Description = strings.TrimSpace(*upd.Description)
	}
	return s.store.UpdateRole(ctx, role)
}

func (s *RBAC) DeleteRole(ctx context.Context, id int64) error {
	if err := validateID("role id", id); err != nil {
		return err
	}
	if err := s.store.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.logger.Info("RBAC service: role deleted", "role_id", id)
	return nil
}

// CreatePermission stores a permission. An empty scope defaults to model.ScopeAll.
func (s *RBAC) CreatePermission(ctx context.Context, resource, action string, scope model.Scope) (model.Permission, error) {
	if scope == model.ScopeNone {
		scope = model.ScopeAll
	}
	perm := model.Permission{
		Resource: strings.TrimSpace(resource),
		Action:   strings.TrimSpace(action),
		Scope:    scope,
	}
	if err := validatePermission(perm); err != nil {
		return model.Permission{}, err
	}

	created, err := s.store.CreatePermission(ctx, perm)
	if err != nil {
		return model.Permission{}, err
	}
	s.logger.Info("RBAC service: permission created",
		"permission_id", created.ID,
		"resource", created.Resource,
		"action", created.Action,
		"scope", string(created.Scope))
	return created, nil
}

func (s *RBAC) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	return s.store.ListPermissions(ctx)
}

func (s *RBAC) GetPermission(ctx context.Context, id int64) (model.Permission, error) {
	if err := validateID("permission id", id); err != nil {
		return model.Permission{}, err
	}
	return s.store.GetPermission(ctx, id)
}

func (s *RBAC) UpdatePermission(ctx context.Context, id int64, upd PermissionUpdate) (model.Permission, error) {
	perm, err := s.GetPermission(ctx, id)
	if err != nil {
		return model.Permission{}, err
	}
	if upd.Resource != nil {
		perm.Resource = strings.TrimSpace(*upd.Resource)
	}
	if upd.Action != nil {
		perm.Action = strings.TrimSpace(*upd.Action)
	}
	if upd.Scope != nil {
		perm.Scope = *upd.Scope
	}
	if err := validatePermission(perm); err != nil {
		return model.Permission{}, err
	}
	return s.store.UpdatePermission(ctx, perm)
}

func (s *RBAC) DeletePermission(ctx context.Context, id int64) error {
	if err := validateID("permission id", id); err != nil {
		return err
	}
	if err := s.store.DeletePermission(ctx, id); err != nil {
		return err
	}
	s.logger.Info("RBAC service: permission deleted", "permission_id", id)
	return nil
}

func (s *RBAC) GrantPermission(ctx context.Context, roleID, permissionID int64) (model.RolePermission, error) {
	if err := validateID("role", roleID); err != nil {
		return model.RolePermission{}, err
	}
	if err := validateID("permission", permissionID); err != nil {
		return model.RolePermission{}, err
	}
	link, err := s.store.CreateRolePermission(ctx, model.RolePermission{RoleID: roleID, PermissionID: permissionID})
	if err != nil {
		return model.RolePermission{}, err
	}
	s.logger.Info("RBAC service: permission granted",
		"role_id", roleID,
		"permission_id", permissionID)
	return link, nil
}

func (s *RBAC) ListRolePermissions(ctx context.Context) ([]model.RolePermission, error) {
	return s.store.ListRolePermissions(ctx)
}

func (s *RBAC) GetRolePermission(ctx context.Context, id int64) (model.RolePermission, error) {
	if err := validateID("role permission id", id); err != nil {
		return model.RolePermission{}, err
	}
	return s.store.GetRolePermission(ctx, id)
}

func (s *RBAC) RevokePermission(ctx context.Context, id int64) error {
	if err := validateID("role permission id", id); err != nil {
		return err
	}
	return s.store.DeleteRolePermission(ctx, id)
}

func (s *RBAC) AssignRole(ctx context.Context, userID uuid.UUID, roleID int64) (model.UserRole, error) {
	if userID == uuid.Nil {
		return model.UserRole{}, fmt.Errorf("%w: user is required", model.ErrInvalidInput)
	}
	if err := validateID("role", roleID); err != nil {
		return model.UserRole{}, err
	}
	link, err := s.store.CreateUserRole(ctx, model.UserRole{UserID: userID, RoleID: roleID})
	if err != nil {
		return model.UserRole{}, err
	}
	s.logger.Info("RBAC service: role assigned",
		"user_id", userID.String(),
		"role_id", roleID)
	return link, nil
}

func (s *RBAC) ListUserRoles(ctx context.Context) ([]model.UserRole, error) {
	return s.store.ListUserRoles(ctx)
}

func (s *RBAC) GetUserRole(ctx context.Context, id int64) (model.UserRole, error) {
	if err := validateID("user role id", id); err != nil {
		return model.UserRole{}, err
	}
	return s.store.GetUserRole(ctx, id)
}

func (s *RBAC) UnassignRole(ctx context.Context, id int64) error {
	if err := validateID("user role id", id); err != nil {
		return err
	}
	return s.store.DeleteUserRole(ctx, id)
}

func validateID(field string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s must be a positive integer", model.ErrInvalidInput, field)
	}
	return nil
}

func validateName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", model.ErrInvalidInput, field)
	}
	if len(value) > maxNameLength {
		return fmt.Errorf("%w: %s must be at most %d characters", model.ErrInvalidInput, field, maxNameLength)
	}
	return nil
}

func validatePermission(perm model.Permission) error {
	if err := validateName("resource", perm.Resource); err != nil {
		return err
	}
	if err := validateName("action", perm.Action); err != nil {
		return err
	}
	if !perm.Scope.Valid() {
		return fmt.Errorf("%w: scope must be one of OWN, ALL", model.ErrInvalidInput)
	}
	return nil
}
