package model

import (
	"context"
	"time"
)

// EventType names an audit event.
type EventType string

const (
	EventUserRegistered  EventType = "user.registered"
	EventUserDeleted     EventType = "user.deleted"
	EventLoginSucceeded  EventType = "session.login"
	EventLoginFailed     EventType = "session.login_failed"
	EventSessionRefresh  EventType = "session.refreshed"
	EventRefreshRejected EventType = "session.refresh_rejected"
	EventLogout          EventType = "session.logout"
)

// Event is an audit record of a session lifecycle transition.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	UserID     string         `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// EventPublisher delivers audit events. Delivery failures must not fail the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}
