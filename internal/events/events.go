package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// Event topic constants
const (
	TopicTaskCreated       = "gdpr.task.created"
	TopicTaskUpdated       = "gdpr.task.updated"
	TopicTaskStatusChanged = "gdpr.task.status_changed"
	TopicTaskDeleted       = "gdpr.task.deleted"
	TopicCommentAdded      = "gdpr.comment.added"

	TopicAttachmentAdded   = "gdpr.attachment.added"
	TopicAttachmentDeleted = "gdpr.attachment.deleted"

	TopicUserUpdated = "gdpr.user.updated"
)

// TopicAllTasks matches every task-related subject.
const TopicAllTasks = "gdpr.task.>"

// TopicAll matches every subject emitted by the tool.
const TopicAll = "gdpr.>"

// Event types

type TaskCreated struct {
	Task *model.Task `json:"task"`
}

type TaskUpdated struct {
	Task *model.Task `json:"task"`
}

type TaskStatusChanged struct {
	Task *model.Task      `json:"task"`
	From model.TaskStatus `json:"from"`
}

type TaskDeleted struct {
	TaskID string `json:"task_id"`
}

type CommentAdded struct {
	Comment *model.Comment `json:"comment"`
}

type AttachmentAdded struct {
	Attachment *model.Attachment `json:"attachment"`
}

type AttachmentDeleted struct {
	AttachmentID string `json:"attachment_id"`
}

type UserUpdated struct {
	User *model.User `json:"user"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Decode unmarshals a raw bus payload into the typed event for its topic.
// Unknown topics and malformed payloads return an error; consumers treat
// those as noise rather than change signals.
func Decode(topic string, data []byte) (any, error) {
	var event any
	switch topic {
	case TopicTaskCreated:
		event = &TaskCreated{}
	case TopicTaskUpdated:
		event = &TaskUpdated{}
	case TopicTaskStatusChanged:
		event = &TaskStatusChanged{}
	case TopicTaskDeleted:
		event = &TaskDeleted{}
	case TopicCommentAdded:
		event = &CommentAdded{}
	case TopicAttachmentAdded:
		event = &AttachmentAdded{}
	case TopicAttachmentDeleted:
		event = &AttachmentDeleted{}
	case TopicUserUpdated:
		event = &UserUpdated{}
	default:
		return nil, fmt.Errorf("unknown event topic %q", topic)
	}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", topic, err)
	}
	return event, nil
}
