package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// ScopeResolver is a mock type for the scope resolver used by transports.
type ScopeResolver struct {
	mock.Mock
}

func (_m *ScopeResolver) Resolve(ctx context.Context, identity *model.Identity, resource, action string) (model.Scope, error) {
	ret := _m.Called(ctx, identity, resource, action)
	var r0 model.Scope
	if v, ok := ret.Get(0).(model.Scope); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// NewScopeResolver creates a new instance of ScopeResolver and registers
// expectation assertions on test cleanup.
func NewScopeResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *ScopeResolver {
	m := &ScopeResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
