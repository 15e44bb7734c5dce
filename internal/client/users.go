package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/florishenkelman/gdpr-tool/internal/api"
	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// UserService wraps the user resource endpoints.
type UserService struct {
	gw *api.Gateway
}

// UserUpdate holds the mutable profile fields. Nil pointers leave the
// corresponding field unchanged on the server.
type UserUpdate struct {
	Username *string     `json:"username,omitempty"`
	Email    *string     `json:"email,omitempty"`
	JobTitle *string     `json:"jobTitle,omitempty"`
	Role     *model.Role `json:"role,omitempty"`
}

// Register creates a new account. It is the only user operation available
// without a session; the server defaults the role to VIEWER when omitted.
func (s *UserService) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	var user model.User
	req := &api.Request{Method: http.MethodPost, Path: "/users/register", Body: reg, NoAuth: true}
	if err := s.gw.Do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List fetches all users.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := s.gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/users"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches a single user.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/users/" + url.PathEscape(id)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update to a user profile.
func (s *UserService) Update(ctx context.Context, id string, update *UserUpdate) (*model.User, error) {
	var user model.User
	req := &api.Request{Method: http.MethodPut, Path: "/users/" + url.PathEscape(id), Body: update}
	if err := s.gw.Do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.gw.Do(ctx, &api.Request{Method: http.MethodDelete, Path: "/users/" + url.PathEscape(id)}, nil)
}

// UploadAvatar replaces a user's avatar image. The content type and size are
// checked locally before any bytes move; a rejection is a
// *model.ValidationError with no network traffic. The server responds with
// the updated user record.
func (s *UserService) UploadAvatar(ctx context.Context, userID, fileName, contentType string, size int64, r io.Reader) (*model.User, error) {
	if err := model.ValidateAvatarUpload(contentType, size); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(fileHeader("file", fileName, contentType))
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading avatar file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	var user model.User
	req := &api.Request{
		Method:      http.MethodPost,
		Path:        "/users/" + url.PathEscape(userID) + "/avatar",
		BodyReader:  &buf,
		ContentType: mw.FormDataContentType(),
	}
	if err := s.gw.Do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// fileHeader builds a multipart part header carrying the real content type
// instead of the application/octet-stream CreateFormFile defaults to.
func fileHeader(field, fileName, contentType string) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	h.Set("Content-Type", contentType)
	return h
}
