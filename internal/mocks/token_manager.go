package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// TokenManager is a mock type for the model.TokenManager type.
type TokenManager struct {
	mock.Mock
}

func (_m *TokenManager) IssueAccess(userID string) (string, error) {
	ret := _m.Called(userID)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) IssueRefresh(userID string, jti string) (string, string, time.Time, error) {
	ret := _m.Called(userID, jti)
	var r2 time.Time
	if v, ok := ret.Get(2).(time.Time); ok {
		r2 = v
	}
	return ret.String(0), ret.String(1), r2, ret.Error(3)
}

func (_m *TokenManager) Decode(token string, expected model.TokenType) (model.TokenPayload, error) {
	ret := _m.Called(token, expected)
	var r0 model.TokenPayload
	if v, ok := ret.Get(0).(model.TokenPayload); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// NewTokenManager creates a new instance of TokenManager and registers
// expectation assertions on test cleanup.
func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
