// Package audit records session lifecycle events. Every event is logged and
// counted, then handed to the configured sinks.
package audit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// Sink delivers an event to an external system.
type Sink interface {
	Send(ctx context.Context, event model.Event) error
}

var _ model.EventPublisher = (*Publisher)(nil)

// Publisher is the model.EventPublisher used by services.
type Publisher struct {
	logger   *logger.Logger
	sinks    []Sink
	events   *prometheus.CounterVec
	failures prometheus.Counter
	now      func() time.Time
}

// NewPublisher creates a Publisher. Metrics are registered with reg when it is not nil.
func NewPublisher(logger *logger.Logger, reg prometheus.Registerer, sinks ...Sink) *Publisher {
	factory := promauto.With(reg)
	return &Publisher{
		logger: logger,
		sinks:  sinks,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authsys_audit_events_total",
			Help: "Audit events by type.",
		}, []string{"type"}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "authsys_audit_delivery_failures_total",
			Help: "Audit events a sink failed to deliver.",
		}),
		now: time.Now,
	}
}

// Publish stamps the event with an id and time when missing and delivers it.
// Sink failures are logged and counted, never returned.
func (p *Publisher) Publish(ctx context.Context, event model.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}
	if event.ID == "" {
		event.ID = newID(event.OccurredAt)
	}

	p.events.WithLabelValues(string(event.Type)).Inc()
	p.logger.Info("Audit: event",
		"id", event.ID,
		"type", string(event.Type),
		"user_id", event.UserID,
		"fields", event.Fields)

	for _, sink := range p.sinks {
		if err := sink.Send(ctx, event); err != nil {
			p.failures.Inc()
			p.logger.Warn("Audit: failed to deliver event",
				"id", event.ID,
				"type", string(event.Type),
				"error", err.Error())
		}
	}
}
