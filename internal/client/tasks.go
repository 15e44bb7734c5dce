package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/florishenkelman/gdpr-tool/internal/api"
	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// TaskService wraps the task resource endpoints.
type TaskService struct {
	gw *api.Gateway
}

// TaskUpdate holds the mutable task fields for a full update. Nil pointers
// leave the corresponding field unchanged on the server.
type TaskUpdate struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Priority    *model.Priority   `json:"priority,omitempty"`
	Status      *model.TaskStatus `json:"status,omitempty"`
	AssigneeID  *string           `json:"assigneeId,omitempty"`
	DueDate     *string           `json:"dueDate,omitempty"`
}

// List fetches all tasks visible to the current user.
func (s *TaskService) List(ctx context.Context) ([]*model.Task, error) {
	var tasks []*model.Task
	if err := s.gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/tasks"}, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByAssignee fetches the tasks assigned to a user.
func (s *TaskService) ListByAssignee(ctx context.Context, userID string) ([]*model.Task, error) {
	var tasks []*model.Task
	if err := s.gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/tasks/assignee/" + url.PathEscape(userID)}, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByCreator fetches the tasks a user created.
func (s *TaskService) ListByCreator(ctx context.Context, userID string) ([]*model.Task, error) {
	var tasks []*model.Task
	if err := s.gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/tasks/creator/" + url.PathEscape(userID)}, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get fetches a single task with its relational detail (comments).
func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := s.gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/tasks/" + url.PathEscape(id)}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create validates the draft locally and submits it. A constraint violation
// returns a *model.ValidationError without any network traffic.
func (s *TaskService) Create(ctx context.Context, draft model.TaskDraft) (*model.Task, error) {
	payload, err := model.ValidateTaskDraft(draft)
	if err != nil {
		return nil, err
	}
	var task model.Task
	req := &api.Request{Method: http.MethodPost, Path: "/tasks", Body: payload}
	if err := s.gw.Do(ctx, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies a partial update to a task.
func (s *TaskService) Update(ctx context.Context, id string, update *TaskUpdate) (*model.Task, error) {
	var task model.Task
	req := &api.Request{Method: http.MethodPut, Path: "/tasks/" + url.PathEscape(id), Body: update}
	if err := s.gw.Do(ctx, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateStatus moves a task to a new status.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	body := map[string]model.TaskStatus{"status": status}
	var task model.Task
	req := &api.Request{Method: http.MethodPut, Path: "/tasks/" + url.PathEscape(id) + "/status", Body: body}
	if err := s.gw.Do(ctx, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.gw.Do(ctx, &api.Request{Method: http.MethodDelete, Path: "/tasks/" + url.PathEscape(id)}, nil)
}

// Search queries tasks by free text, status, and priority. The sentinel "ALL"
// (or an empty string) drops a filter from the query. Search is a public
// endpoint and is always issued, authenticated or not.
func (s *TaskService) Search(ctx context.Context, searchTerm, status, priority string) ([]*model.Task, error) {
	q := url.Values{}
	if searchTerm != "" {
		q.Set("searchTerm", searchTerm)
	}
	if status != "" && status != "ALL" {
		q.Set("status", status)
	}
	if priority != "" && priority != "ALL" {
		q.Set("priority", priority)
	}

	var tasks []*model.Task
	req := &api.Request{Method: http.MethodGet, Path: "/tasks/search", Query: q, NoAuth: true}
	if err := s.gw.Do(ctx, req, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AddComment posts a comment on a task.
func (s *TaskService) AddComment(ctx context.Context, taskID, content string) (*model.Comment, error) {
	body := map[string]string{"content": content}
	var comment model.Comment
	req := &api.Request{Method: http.MethodPost, Path: "/tasks/" + url.PathEscape(taskID) + "/comments", Body: body}
	if err := s.gw.Do(ctx, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments fetches the comments on a task, oldest first.
func (s *TaskService) ListComments(ctx context.Context, taskID string) ([]*model.Comment, error) {
	var comments []*model.Comment
	req := &api.Request{Method: http.MethodGet, Path: "/tasks/" + url.PathEscape(taskID) + "/comments"}
	if err := s.gw.Do(ctx, req, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
