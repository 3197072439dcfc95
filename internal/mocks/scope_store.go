package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// ScopeStore is a mock type for the model.ScopeStore type.
type ScopeStore struct {
	mock.Mock
}

func (_m *ScopeStore) ScopesFor(ctx context.Context, userID uuid.UUID, resource, action string) ([]model.Scope, error) {
	ret := _m.Called(ctx, userID, resource, action)
	var r0 []model.Scope
	if v, ok := ret.Get(0).([]model.Scope); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// NewScopeStore creates a new instance of ScopeStore and registers
// expectation assertions on test cleanup.
func NewScopeStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ScopeStore {
	m := &ScopeStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
