package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/florishenkelman/gdpr-tool/internal/model"
)

func TestUserService_Register(t *testing.T) {
	h := &testHandler{responseBody: `{"id":"u-1","username":"ana","email":"a@b.com","role":"VIEWER"}`}
	c, srv := newTestClient(h, &staticCreds{})
	defer srv.Close()

	user, err := c.Users.Register(context.Background(), model.Registration{
		Email:    "a@b.com",
		Username: "ana",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/users/register" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.authorization != "" {
		t.Errorf("authorization = %q, registration must not carry a token", h.authorization)
	}
	if strings.Contains(h.body, `"role"`) {
		t.Errorf("body = %q, empty role should be omitted so the server defaults it", h.body)
	}
	if user.Role != model.RoleViewer {
		t.Errorf("role = %q", user.Role)
	}
}

func TestUserService_ListAndGet(t *testing.T) {
	h := &testHandler{responseBody: `[{"id":"u-1","username":"ana","email":"a@b.com","role":"ADMIN"}]`}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	users, err := c.Users.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if h.path != "/users" {
		t.Errorf("path = %q", h.path)
	}
	if len(users) != 1 || users[0].Role != model.RoleAdmin {
		t.Errorf("users = %+v", users)
	}

	h.responseBody = `{"id":"u-1","username":"ana","email":"a@b.com","role":"ADMIN"}`
	user, err := c.Users.Get(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if h.path != "/users/u-1" {
		t.Errorf("path = %q", h.path)
	}
	if user.Username != "ana" {
		t.Errorf("user = %+v", user)
	}
}

func TestUserService_Update(t *testing.T) {
	h := &testHandler{responseBody: `{"id":"u-1","username":"ana","email":"a@b.com","role":"EDITOR","jobTitle":"DPO"}`}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	jobTitle := "DPO"
	role := model.RoleEditor
	user, err := c.Users.Update(context.Background(), "u-1", &UserUpdate{JobTitle: &jobTitle, Role: &role})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if h.method != http.MethodPut || h.path != "/users/u-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}

	var reqBody map[string]any
	if err := json.Unmarshal([]byte(h.body), &reqBody); err != nil {
		t.Fatal(err)
	}
	if reqBody["jobTitle"] != "DPO" || reqBody["role"] != "EDITOR" {
		t.Errorf("body = %v", reqBody)
	}
	if _, ok := reqBody["email"]; ok {
		t.Error("body carries email, unset fields should be omitted")
	}
	if user.JobTitle != "DPO" {
		t.Errorf("user = %+v", user)
	}
}

func TestUserService_Delete(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	if err := c.Users.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if h.method != http.MethodDelete || h.path != "/users/u-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

func TestUserService_UploadAvatar(t *testing.T) {
	h := &testHandler{responseBody: `{"id":"u-1","username":"ana","email":"a@b.com","role":"VIEWER","avatarUrl":"/avatars/u-1.png"}`}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	data := strings.NewReader("fake png bytes")
	user, err := c.Users.UploadAvatar(context.Background(), "u-1", "me.png", "image/png", 14, data)
	if err != nil {
		t.Fatalf("UploadAvatar() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/users/u-1/avatar" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if !strings.HasPrefix(h.contentType, "multipart/form-data") {
		t.Errorf("content-type = %q", h.contentType)
	}
	if !strings.Contains(h.body, "fake png bytes") {
		t.Error("multipart body missing file content")
	}
	if !strings.Contains(h.body, `filename="me.png"`) {
		t.Error("multipart body missing filename")
	}
	if !strings.Contains(h.body, "image/png") {
		t.Error("multipart part missing content type")
	}
	if user.AvatarURL != "/avatars/u-1.png" {
		t.Errorf("user = %+v", user)
	}
}

func TestUserService_UploadAvatar_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
	}{
		{"unsupported type", "application/pdf", 100},
		{"oversized", "image/png", model.MaxAvatarSize + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &testHandler{}
			c, srv := newTestClient(h, &staticCreds{token: "tok"})
			defer srv.Close()

			_, err := c.Users.UploadAvatar(context.Background(), "u-1", "f", tt.contentType, tt.size, strings.NewReader(""))
			var ve *model.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v (%T), want *model.ValidationError", err, err)
			}
			if h.calls != 0 {
				t.Errorf("server saw %d calls, want 0", h.calls)
			}
		})
	}
}
