package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// RBACStore is a mock type for the model.RBACStore type.
type RBACStore struct {
	mock.Mock
}

func get[T any](ret mock.Arguments) (T, error) {
	var r0 T
	if v, ok := ret.Get(0).(T); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *RBACStore) CreateRole(ctx context.Context, role model.Role) (model.Role, error) {
	return get[model.Role](_m.Called(ctx, role))
}

func (_m *RBACStore) ListRoles(ctx context.Context) ([]model.Role, error) {
	return get[[]model.Role](_m.Called(ctx))
}

func (_m *RBACStore) GetRole(ctx context.Context, id int64) (model.Role, error) {
	return get[model.Role](_m.Called(ctx, id))
}

func (_m *RBACStore) GetRoleByName(ctx context.Context, name string) (model.Role, error) {
	return get[model.Role](_m.Called(ctx, name))
}

func (_m *RBACStore) UpdateRole(ctx context.Context, role model.Role) (model.Role, error) {
	return get[model.Role](_m.Called(ctx, role))
}

func (_m *RBACStore) DeleteRole(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *RBACStore) CreatePermission(ctx context.Context, perm model.Permission) (model.Permission, error) {
	return get[model.Permission](_m.Called(ctx, perm))
}

func (_m *RBACStore) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	return get[[]model.Permission](_m.Called(ctx))
}

func (_m *RBACStore) GetPermission(ctx context.Context, id int64) (model.Permission, error) {
	return get[model.Permission](_m.Called(ctx, id))
}

func (_m *RBACStore) FindPermission(ctx context.Context, resource, action string, scope model.Scope) (model.Permission, error) {
	return get[model.Permission](_m.Called(ctx, resource, action, scope))
}

func (_m *RBACStore) UpdatePermission(ctx context.Context, perm model.Permission) (model.Permission, error) {
	return get[model.Permission](_m.Called(ctx, perm))
}

func (_m *RBACStore) DeletePermission(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *RBACStore) CreateRolePermission(ctx context.Context, link model.RolePermission) (model.RolePermission, error) {
	return get[model.RolePermission](_m.Called(ctx, link))
}

func (_m *RBACStore) ListRolePermissions(ctx context.Context) ([]model.RolePermission, error) {
	return get[[]model.RolePermission](_m.Called(ctx))
}

func (_m *RBACStore) GetRolePermission(ctx context.Context, id int64) (model.RolePermission, error) {
	return get[model.RolePermission](_m.Called(ctx, id))
}

func (_m *RBACStore) DeleteRolePermission(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *RBACStore) CreateUserRole(ctx context.Context, link model.UserRole) (model.UserRole, error) {
	return get[model.UserRole](_m.Called(ctx, link))
}

func (_m *RBACStore) ListUserRoles(ctx context.Context) ([]model.UserRole, error) {
	return get[[]model.UserRole](_m.Called(ctx))
}

func (_m *RBACStore) GetUserRole(ctx context.Context, id int64) (model.UserRole, error) {
	return get[model.UserRole](_m.Called(ctx, id))
}

func (_m *RBACStore) DeleteUserRole(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

// NewRBACStore creates a new instance of RBACStore and registers
// expectation assertions on test cleanup.
func NewRBACStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RBACStore {
	m := &RBACStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
