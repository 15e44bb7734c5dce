package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/florishenkelman/gdpr-tool/internal/events"
	"github.com/florishenkelman/gdpr-tool/internal/model"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Watch tasks for changes",
	GroupID: "tasks",
	Long: `Watch the task list and print tasks as they change. With a NATS
server configured the watch is event-driven; otherwise it polls at the
given interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		seen := make(map[string]time.Time)

		if err := queryAndPrint(ctx, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		if url := eventsURL(); url != "" {
			return watchNATS(ctx, url, seen)
		}
		return watchPoll(ctx, interval, seen)
	},
}

// watchNATS subscribes to change events and re-queries on changes with a
// short debounce so event bursts collapse into one query.
func watchNATS(ctx context.Context, natsURL string, seen map[string]time.Time) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicAllTasks)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			// Only well-formed change events trigger a re-query; stray
			// subjects or junk payloads on the bus are ignored.
			if _, err := events.Decode(msg.Topic, msg.Data); err != nil {
				continue
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, seen map[string]time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint lists tasks, diffs against the seen map, and prints any
// that are new or changed.
func queryAndPrint(ctx context.Context, seen map[string]time.Time) error {
	tasks, err := services.Tasks.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fail(err)
	}

	changed := diffTasks(tasks, seen)
	if len(changed) > 0 {
		if jsonOutput {
			printJSON(changed)
		} else {
			printTaskListTable(changed)
		}
	}
	return nil
}

// diffTasks compares tasks against the seen map and returns those that are
// new or have a different updated_at timestamp. It updates seen in place.
func diffTasks(tasks []*model.Task, seen map[string]time.Time) []*model.Task {
	var changed []*model.Task
	for _, t := range tasks {
		prev, ok := seen[t.ID]
		if !ok || !t.UpdatedAt.Equal(prev) {
			changed = append(changed, t)
		}
		seen[t.ID] = t.UpdatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
}
