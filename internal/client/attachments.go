package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/florishenkelman/gdpr-tool/internal/api"
	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// AttachmentService wraps the task attachment endpoints.
type AttachmentService struct {
	gw *api.Gateway
}

// Upload attaches a file to a task.
func (s *AttachmentService) Upload(ctx context.Context, taskID, fileName, contentType string, r io.Reader) (*model.Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(fileHeader("file", fileName, contentType))
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading attachment file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	var att model.Attachment
	req := &api.Request{
		Method:      http.MethodPost,
		Path:        "/tasks/" + url.PathEscape(taskID) + "/attachments",
		BodyReader:  &buf,
		ContentType: mw.FormDataContentType(),
	}
	if err := s.gw.Do(ctx, req, &att); err != nil {
		return nil, err
	}
	return &att, nil
}

// ListForTask fetches the attachment metadata for a task.
func (s *AttachmentService) ListForTask(ctx context.Context, taskID string) ([]*model.Attachment, error) {
	var atts []*model.Attachment
	req := &api.Request{Method: http.MethodGet, Path: "/tasks/" + url.PathEscape(taskID) + "/attachments"}
	if err := s.gw.Do(ctx, req, &atts); err != nil {
		return nil, err
	}
	return atts, nil
}

// Download fetches an attachment's raw bytes along with its content type.
func (s *AttachmentService) Download(ctx context.Context, attachmentID string) (*api.Blob, error) {
	req := &api.Request{Method: http.MethodGet, Path: "/attachments/" + url.PathEscape(attachmentID) + "/download"}
	return s.gw.DoBinary(ctx, req)
}

// Delete removes an attachment.
func (s *AttachmentService) Delete(ctx context.Context, attachmentID string) error {
	return s.gw.Do(ctx, &api.Request{Method: http.MethodDelete, Path: "/attachments/" + url.PathEscape(attachmentID)}, nil)
}
