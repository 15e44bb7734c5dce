package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestAttachmentService_Upload(t *testing.T) {
	h := &testHandler{responseBody: `{"id":"att-1","taskId":"t-1","fileName":"dpa.pdf","fileType":"application/pdf","fileSize":9,"uploadedAt":"2026-01-21T10:00:00Z"}`}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	att, err := c.Attachments.Upload(context.Background(), "t-1", "dpa.pdf", "application/pdf", strings.NewReader("%PDF-1.7\n"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/tasks/t-1/attachments" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if !strings.HasPrefix(h.contentType, "multipart/form-data") {
		t.Errorf("content-type = %q", h.contentType)
	}
	if !strings.Contains(h.body, `filename="dpa.pdf"`) {
		t.Error("multipart body missing filename")
	}
	if att.ID != "att-1" || att.FileName != "dpa.pdf" {
		t.Errorf("attachment = %+v", att)
	}
}

func TestAttachmentService_ListForTask(t *testing.T) {
	h := &testHandler{responseBody: `[{"id":"att-1","taskId":"t-1","fileName":"dpa.pdf","fileType":"application/pdf","fileSize":9,"uploadedAt":"2026-01-21T10:00:00Z"}]`}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	atts, err := c.Attachments.ListForTask(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("ListForTask() error = %v", err)
	}
	if h.path != "/tasks/t-1/attachments" {
		t.Errorf("path = %q", h.path)
	}
	if len(atts) != 1 || atts[0].FileSize != 9 {
		t.Errorf("attachments = %+v", atts)
	}
}

func TestAttachmentService_Download(t *testing.T) {
	h := &testHandler{responseBody: "%PDF-1.7 raw bytes", responseType: "application/pdf"}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	blob, err := c.Attachments.Download(context.Background(), "att-1")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if h.path != "/attachments/att-1/download" {
		t.Errorf("path = %q", h.path)
	}
	if blob.ContentType != "application/pdf" {
		t.Errorf("content type = %q", blob.ContentType)
	}
	if string(blob.Data) != "%PDF-1.7 raw bytes" {
		t.Errorf("data = %q", blob.Data)
	}
}

func TestAttachmentService_Delete(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(h, &staticCreds{token: "tok"})
	defer srv.Close()

	if err := c.Attachments.Delete(context.Background(), "att-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if h.method != http.MethodDelete || h.path != "/attachments/att-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}
