package model

import "time"

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid checks whether the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusClosed     TaskStatus = "CLOSED"
)

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Task is the core work-item record returned by the server.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	CreatorID   string     `json:"creatorId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relational data -- populated by detail queries, absent in list views.
	Comments []*Comment `json:"comments,omitempty"`
}

// Overdue reports whether the task has a due date in the past and is not closed.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusClosed {
		return false
	}
	return t.DueDate.Before(now)
}
