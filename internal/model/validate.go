package model

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError holds a list of field-level validation errors. It is raised
// locally, before a request is built, and never reaches the network.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// dueDateLayouts are the accepted input formats for task due dates, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate parses a user-supplied due date string. Bare dates are
// interpreted as midnight UTC, matching what the server stores.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", s)
}

// TaskDraft is the unvalidated form input for creating or updating a task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    string
	AssigneeID  string
	DueDate     string
}

// ValidateTaskDraft checks a draft for constraint violations and returns the
// normalized create payload. It returns a *ValidationError if any rules fail.
func ValidateTaskDraft(d TaskDraft) (*TaskCreate, error) {
	var ve ValidationError

	title := strings.TrimSpace(d.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 255 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 255 characters or fewer"})
	}

	description := strings.TrimSpace(d.Description)
	if description == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "description", Message: "is required"})
	}

	priority := Priority(strings.ToUpper(strings.TrimSpace(d.Priority)))
	if priority == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "priority", Message: "is required"})
	} else if !priority.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("must be one of LOW, MEDIUM, HIGH, got %q", priority),
		})
	}

	var due *time.Time
	if strings.TrimSpace(d.DueDate) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "dueDate", Message: "is required"})
	} else if t, err := ParseDueDate(d.DueDate); err != nil {
		ve.Errors = append(ve.Errors, FieldError{Field: "dueDate", Message: "is not a valid date"})
	} else {
		due = &t
	}

	if ve.HasErrors() {
		return nil, &ve
	}

	return &TaskCreate{
		Title:       title,
		Description: description,
		Priority:    priority,
		AssigneeID:  strings.TrimSpace(d.AssigneeID),
		DueDate:     due,
	}, nil
}

// TaskCreate is the validated request payload for creating a task.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate"`
}

// allowedAvatarTypes is the closed set of image content types the server accepts.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// MaxAvatarSize caps avatar uploads at 5 MiB.
const MaxAvatarSize = 5 * 1024 * 1024

// ValidateAvatarUpload checks an avatar file's content type and size before
// the multipart request is assembled.
func ValidateAvatarUpload(contentType string, size int64) error {
	var ve ValidationError
	if !allowedAvatarTypes[contentType] {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "file",
			Message: fmt.Sprintf("must be JPEG, PNG, or GIF, got %q", contentType),
		})
	}
	if size > MaxAvatarSize {
		ve.Errors = append(ve.Errors, FieldError{Field: "file", Message: "must be 5MB or smaller"})
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}
