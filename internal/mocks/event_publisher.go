package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authsys-server/internal/model"
)

// EventPublisher is a mock type for the model.EventPublisher type.
type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) Publish(ctx context.Context, event model.Event) {
	_m.Called(ctx, event)
}

// NewEventPublisher creates a new instance of EventPublisher and registers
// expectation assertions on test cleanup.
func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
