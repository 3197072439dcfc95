package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/dtroode/authsys-server/internal/model"
)

type natsPublisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes events as JSON on "<prefix>.<event type>".
type NATSSink struct {
	conn   natsPublisher
	close  func()
	prefix string
}

// NewNATSSink connects to the NATS server at url.
func NewNATSSink(url, prefix string, opts ...nats.Option) (*NATSSink, error) {
	opts = append([]nats.Option{nats.Name("authsys-audit")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSSink{
		conn:   nc,
		prefix: prefix,
		close: func() {
			if err := nc.Drain(); err != nil {
				nc.Close()
			}
		},
	}, nil
}

func (s *NATSSink) Send(ctx context.Context, event model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := s.conn.Publish(Subject(s.prefix, event.Type), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (s *NATSSink) Close() {
	if s.close != nil {
		s.close()
	}
}

// Subject returns the subject an event type is published on.
func Subject(prefix string, typ model.EventType) string {
	if prefix == "" {
		return string(typ)
	}
	return prefix + "." + string(typ)
}
