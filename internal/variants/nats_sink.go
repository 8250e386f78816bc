package variants

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes telemetry on <prefix>.variants.<event_type> for
// downstream analytics consumers
type NATSSink struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSSink creates a sink publishing on conn
func NewNATSSink(conn *nats.Conn, prefix string) *NATSSink {
	if prefix == "" {
		prefix = "dendrix"
	}
	return &NATSSink{conn: conn, prefix: prefix}
}

// Subject returns the subject an event type is published on
func (s *NATSSink) Subject(t EventType) string {
	return fmt.Sprintf("%s.variants.%s", s.prefix, t)
}

// Record publishes the event as JSON
func (s *NATSSink) Record(ctx context.Context, event *Event) error {
	if s.conn == nil {
		return nats.ErrConnectionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.conn.Publish(s.Subject(event.Type), data)
}
