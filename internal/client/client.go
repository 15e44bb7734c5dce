// Package client provides thin resource wrappers over the API gateway. Each
// service names the operations of one server resource; errors from the
// gateway propagate to callers unchanged.
package client

import (
	"github.com/florishenkelman/gdpr-tool/internal/api"
)

// Client bundles the per-resource services behind a single constructor.
type Client struct {
	Tasks       *TaskService
	Users       *UserService
	Articles    *ArticleService
	Attachments *AttachmentService
}

// New creates a client with all resource services backed by the given gateway.
func New(gw *api.Gateway) *Client {
	return &Client{
		Tasks:       &TaskService{gw: gw},
		Users:       &UserService{gw: gw},
		Articles:    &ArticleService{gw: gw},
		Attachments: &AttachmentService{gw: gw},
	}
}
