package model

import (
	"strings"
	"testing"
	"time"
)

// validDraft returns a TaskDraft that passes all validation rules.
func validDraft() TaskDraft {
	return TaskDraft{
		Title:       "Review processing records",
		Description: "Check the register of processing activities",
		Priority:    "HIGH",
		DueDate:     "2026-09-15",
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateTaskDraft_Valid(t *testing.T) {
	tc, err := ValidateTaskDraft(validDraft())
	if err != nil {
		t.Fatalf("ValidateTaskDraft() error = %v", err)
	}
	if tc.Title != "Review processing records" {
		t.Errorf("Title = %q", tc.Title)
	}
	if tc.Priority != PriorityHigh {
		t.Errorf("Priority = %q, want HIGH", tc.Priority)
	}
	if tc.DueDate == nil || !tc.DueDate.Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DueDate = %v, want 2026-09-15 midnight UTC", tc.DueDate)
	}
}

func TestValidateTaskDraft_TitleRequired(t *testing.T) {
	d := validDraft()
	d.Title = ""
	_, err := ValidateTaskDraft(d)
	if !hasFieldError(fieldErrors(t, err), "title") {
		t.Error("expected error on field 'title' for empty title")
	}
}

func TestValidateTaskDraft_TitleWhitespaceOnly(t *testing.T) {
	d := validDraft()
	d.Title = "   \t\n  "
	_, err := ValidateTaskDraft(d)
	if !hasFieldError(fieldErrors(t, err), "title") {
		t.Error("expected error on field 'title' for whitespace-only title")
	}
}

func TestValidateTaskDraft_TitleTooLong(t *testing.T) {
	d := validDraft()
	d.Title = strings.Repeat("a", 256)
	_, err := ValidateTaskDraft(d)
	if !hasFieldError(fieldErrors(t, err), "title") {
		t.Error("expected error on field 'title' for title exceeding 255 chars")
	}
}

func TestValidateTaskDraft_DescriptionRequired(t *testing.T) {
	d := validDraft()
	d.Description = " "
	_, err := ValidateTaskDraft(d)
	if !hasFieldError(fieldErrors(t, err), "description") {
		t.Error("expected error on field 'description'")
	}
}

func TestValidateTaskDraft_PriorityCases(t *testing.T) {
	for _, tc := range []struct {
		priority string
		ok       bool
	}{
		{"LOW", true},
		{"medium", true}, // normalized to upper case
		{"High", true},
		{"", false},
		{"URGENT", false},
	} {
		d := validDraft()
		d.Priority = tc.priority
		_, err := ValidateTaskDraft(d)
		if tc.ok && err != nil {
			t.Errorf("priority %q: unexpected error %v", tc.priority, err)
		}
		if !tc.ok && (err == nil || !hasFieldError(fieldErrors(t, err), "priority")) {
			t.Errorf("priority %q: expected error on field 'priority'", tc.priority)
		}
	}
}

func TestValidateTaskDraft_DueDateFormats(t *testing.T) {
	for _, tc := range []struct {
		due string
		ok  bool
	}{
		{"2026-09-15", true},
		{"2026-09-15T10:30:00", true},
		{"2026-09-15T10:30:00Z", true},
		{"", false},
		{"next tuesday", false},
	} {
		d := validDraft()
		d.DueDate = tc.due
		_, err := ValidateTaskDraft(d)
		if tc.ok && err != nil {
			t.Errorf("due %q: unexpected error %v", tc.due, err)
		}
		if !tc.ok && (err == nil || !hasFieldError(fieldErrors(t, err), "dueDate")) {
			t.Errorf("due %q: expected error on field 'dueDate'", tc.due)
		}
	}
}

func TestValidateTaskDraft_CollectsAllErrors(t *testing.T) {
	_, err := ValidateTaskDraft(TaskDraft{})
	errs := fieldErrors(t, err)
	for _, field := range []string{"title", "description", "priority", "dueDate"} {
		if !hasFieldError(errs, field) {
			t.Errorf("expected error on field %q", field)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	_, err := ValidateTaskDraft(TaskDraft{Title: "x", Description: "y", Priority: "LOW"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "dueDate") {
		t.Errorf("error message %q should mention dueDate", err.Error())
	}
}

func TestValidateAvatarUpload(t *testing.T) {
	for _, tc := range []struct {
		contentType string
		size        int64
		ok          bool
	}{
		{"image/png", 1024, true},
		{"image/jpeg", MaxAvatarSize, true},
		{"image/gif", 10, true},
		{"application/pdf", 10, false},
		{"image/png", MaxAvatarSize + 1, false},
	} {
		err := ValidateAvatarUpload(tc.contentType, tc.size)
		if tc.ok && err != nil {
			t.Errorf("%s/%d: unexpected error %v", tc.contentType, tc.size, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s/%d: expected error", tc.contentType, tc.size)
		}
	}
}
