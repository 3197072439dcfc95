package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// RefreshTokenStore is a mock type for the model.RefreshTokenStore type.
type RefreshTokenStore struct {
	mock.Mock
}

func (_m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	return _m.Called(ctx, token).Error(0)
}

func (_m *RefreshTokenStore) GetByUserAndJTI(ctx context.Context, userID uuid.UUID, jti string) (model.RefreshToken, error) {
	ret := _m.Called(ctx, userID, jti)
	var r0 model.RefreshToken
	if v, ok := ret.Get(0).(model.RefreshToken); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

func (_m *RefreshTokenStore) Rotate(ctx context.Context, oldID uuid.UUID, next model.RefreshToken) error {
	return _m.Called(ctx, oldID, next).Error(0)
}

func (_m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, userID)
	var r0 int64
	if v, ok := ret.Get(0).(int64); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// NewRefreshTokenStore creates a new instance of RefreshTokenStore and
// registers expectation assertions on test cleanup.
func NewRefreshTokenStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RefreshTokenStore {
	m := &RefreshTokenStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
