package events

import "context"

// NoopPublisher discards every event. It stands in for NATS when no event
// bus is configured, so mutation paths never branch on availability.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error { return nil }
