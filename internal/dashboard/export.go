package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	TaskCount int       `json:"task_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes a dashboard report as JSONL to w: a header line, the
// summary, then one record per task sorted by ID.
func ExportJSONL(w io.Writer, tasks []*model.Task, now time.Time) error {
	sorted := append([]*model.Task(nil), tasks...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: now.UTC(),
		TaskCount: len(sorted),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	if err := enc.Encode(record{Type: "summary", Data: Summarize(sorted, now)}); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	for _, t := range sorted {
		if err := enc.Encode(record{Type: "task", Data: t}); err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
	}

	return nil
}
