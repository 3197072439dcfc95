package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// Authenticator is a mock type for the bearer authenticator used by transports.
type Authenticator struct {
	mock.Mock
}

func (_m *Authenticator) Authenticate(ctx context.Context, header string) (*model.Identity, error) {
	ret := _m.Called(ctx, header)
	var r0 *model.Identity
	if v, ok := ret.Get(0).(*model.Identity); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// NewAuthenticator creates a new instance of Authenticator and registers
// expectation assertions on test cleanup.
func NewAuthenticator(t interface {
	mock.TestingT
	Cleanup(func())
}) *Authenticator {
	m := &Authenticator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
