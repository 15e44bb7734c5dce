// Package dashboard aggregates tasks into the overview counts shown on the
// dashboard, and exports them as JSONL reports to local or remote
// destinations.
package dashboard

import (
	"time"

	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// Summary holds the aggregate counts for a set of tasks.
type Summary struct {
	Total      int                      `json:"total"`
	ByStatus   map[model.TaskStatus]int `json:"byStatus"`
	ByPriority map[model.Priority]int   `json:"byPriority"`
	Overdue    int                      `json:"overdue"`
}

// Summarize computes the dashboard counts over tasks. A task counts as
// overdue when its due date is before now and it is not closed.
func Summarize(tasks []*model.Task, now time.Time) *Summary {
	s := &Summary{
		Total:      len(tasks),
		ByStatus:   map[model.TaskStatus]int{},
		ByPriority: map[model.Priority]int{},
	}
	for _, t := range tasks {
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
		if t.Overdue(now) {
			s.Overdue++
		}
	}
	return s
}
