package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// UserStore is a mock type for the model.UserStore type.
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) user(ret mock.Arguments) (model.User, error) {
	var r0 model.User
	if v, ok := ret.Get(0).(model.User); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return _m.user(_m.Called(ctx, email))
}

func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return _m.user(_m.Called(ctx, id))
}

func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	return _m.user(_m.Called(ctx, user))
}

func (_m *UserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	return _m.user(_m.Called(ctx, user))
}

func (_m *UserStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return _m.Called(ctx, id).Error(0)
}

// NewUserStore creates a new instance of UserStore and registers
// expectation assertions on test cleanup.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
