package main

import (
	"context"
	"fmt"
	"os"

	"github.com/florishenkelman/gdpr-tool/internal/events"
)

// eventsURL resolves the NATS server used for publishing change events:
// environment config first, then the active remote profile.
func eventsURL() string {
	if cfg != nil && cfg.NATSURL != "" {
		return cfg.NATSURL
	}
	return activeRemoteNATSURL()
}

// publishEvent emits a change event on a best-effort basis. Mutations have
// already succeeded against the server by the time it runs, so a publish
// failure warns but never fails the command.
func publishEvent(ctx context.Context, topic string, event any) {
	url := eventsURL()
	if url == "" {
		return
	}
	pub, err := events.NewNATSPublisher(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: event publish skipped: %v\n", err)
		return
	}
	defer pub.Close()
	if err := pub.Publish(ctx, topic, event); err != nil {
		fmt.Fprintf(os.Stderr, "warning: event publish failed: %v\n", err)
	}
}
