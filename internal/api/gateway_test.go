package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	method        string
	path          string
	query         string
	body          string
	contentType   string
	authorization string
	requestID     string
	calls         int

	statusCode   int
	responseBody string
	responseType string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.contentType = r.Header.Get("Content-Type")
	h.authorization = r.Header.Get("Authorization")
	h.requestID = r.Header.Get("X-Request-ID")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	if h.responseType != "" {
		w.Header().Set("Content-Type", h.responseType)
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// fakeCreds is a CredentialSource that counts invalidations.
type fakeCreds struct {
	token       string
	invalidated int
}

func (f *fakeCreds) Token() string { return f.token }
func (f *fakeCreds) Invalidate()   { f.invalidated++; f.token = "" }

func newTestGateway(h http.Handler, creds CredentialSource) (*Gateway, *httptest.Server) {
	srv := httptest.NewServer(h)
	return New(srv.URL, creds), srv
}

func TestGateway_AttachesBearerToken(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	creds := &fakeCreds{token: "abc"}
	g, srv := newTestGateway(h, creds)
	defer srv.Close()

	if err := g.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/tasks"}, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if h.authorization != "Bearer abc" {
		t.Errorf("Authorization = %q, want 'Bearer abc'", h.authorization)
	}
	if !strings.HasPrefix(h.requestID, "req-") {
		t.Errorf("X-Request-ID = %q, want req- prefix", h.requestID)
	}
}

func TestGateway_NoAuthSkipsToken(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	creds := &fakeCreds{token: "abc"}
	g, srv := newTestGateway(h, creds)
	defer srv.Close()

	req := &Request{Method: http.MethodGet, Path: "/articles", NoAuth: true}
	if err := g.Do(context.Background(), req, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if h.authorization != "" {
		t.Errorf("Authorization = %q, want empty for NoAuth request", h.authorization)
	}
}

func TestGateway_EmptyTokenOmitsHeader(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	g, srv := newTestGateway(h, &fakeCreds{})
	defer srv.Close()

	if err := g.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/tasks"}, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if h.authorization != "" {
		t.Errorf("Authorization = %q, want empty when no token held", h.authorization)
	}
}

func TestGateway_EncodesQueryAndBody(t *testing.T) {
	h := &testHandler{responseBody: `{"ok":true}`}
	g, srv := newTestGateway(h, nil)
	defer srv.Close()

	q := url.Values{}
	q.Set("searchTerm", "consent")
	q.Set("status", "ALL")
	req := &Request{
		Method: http.MethodPost,
		Path:   "/tasks/search",
		Query:  q,
		Body:   map[string]string{"note": "hello"},
	}
	var result struct {
		OK bool `json:"ok"`
	}
	if err := g.Do(context.Background(), req, &result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if h.query != "searchTerm=consent&status=ALL" {
		t.Errorf("query = %q", h.query)
	}
	if h.contentType != "application/json" {
		t.Errorf("content-type = %q, want application/json", h.contentType)
	}
	if !strings.Contains(h.body, `"note":"hello"`) {
		t.Errorf("body = %q, want JSON-encoded note", h.body)
	}
	if !result.OK {
		t.Error("result not decoded")
	}
}

func TestGateway_NetworkErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	g := New(srv.URL, nil)

	err := g.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/tasks"}, nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v (%T), want *NetworkError", err, err)
	}
}

func TestGateway_Unauthorized_InvalidatesOnce(t *testing.T) {
	h := &testHandler{statusCode: http.StatusUnauthorized, responseBody: `{"message":"token expired"}`}
	creds := &fakeCreds{token: "stale"}
	g, srv := newTestGateway(h, creds)
	defer srv.Close()

	err := g.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/auth/me"}, nil)
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v (%T), want *AuthError", err, err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", authErr.StatusCode)
	}
	if authErr.Message != "token expired" {
		t.Errorf("Message = %q, want server message preserved", authErr.Message)
	}
	if creds.invalidated != 1 {
		t.Errorf("invalidated %d times, want exactly 1", creds.invalidated)
	}
}

func TestGateway_Forbidden_CredentialedCall(t *testing.T) {
	h := &testHandler{statusCode: http.StatusForbidden, responseBody: `{"error":"forbidden"}`}
	creds := &fakeCreds{token: "abc"}
	g, srv := newTestGateway(h, creds)
	defer srv.Close()

	err := g.Do(context.Background(), &Request{Method: http.MethodDelete, Path: "/users/1"}, nil)
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v (%T), want *AuthError", err, err)
	}
	if creds.invalidated != 1 {
		t.Errorf("invalidated %d times, want 1", creds.invalidated)
	}
}

func TestGateway_Forbidden_UncredentialedCallIsAPIError(t *testing.T) {
	h := &testHandler{statusCode: http.StatusForbidden, responseBody: `{"error":"forbidden"}`}
	creds := &fakeCreds{token: "abc"}
	g, srv := newTestGateway(h, creds)
	defer srv.Close()

	req := &Request{Method: http.MethodGet, Path: "/articles", NoAuth: true}
	err := g.Do(context.Background(), req, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v (%T), want *APIError", err, err)
	}
	if creds.invalidated != 0 {
		t.Errorf("invalidated %d times, want 0 for uncredentialed call", creds.invalidated)
	}
}

func TestGateway_APIErrorMessageFallbacks(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"title is required"}`, "title is required"},
		{"error field", `{"error":"bad input"}`, "bad input"},
		{"raw body", `plain text failure`, "plain text failure"},
	} {
		h := &testHandler{statusCode: http.StatusBadRequest, responseBody: tc.body}
		g, srv := newTestGateway(h, nil)

		err := g.Do(context.Background(), &Request{Method: http.MethodPost, Path: "/tasks"}, nil)
		srv.Close()

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: error = %v (%T), want *APIError", tc.name, err, err)
		}
		if apiErr.Message != tc.want {
			t.Errorf("%s: Message = %q, want %q", tc.name, apiErr.Message, tc.want)
		}
		if apiErr.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: StatusCode = %d, want 400", tc.name, apiErr.StatusCode)
		}
	}
}

func TestGateway_NoContent(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	g, srv := newTestGateway(h, nil)
	defer srv.Close()

	if err := g.Do(context.Background(), &Request{Method: http.MethodDelete, Path: "/tasks/1"}, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestGateway_DoBinary(t *testing.T) {
	h := &testHandler{responseBody: "%PDF-1.4 fake bytes", responseType: "application/pdf"}
	g, srv := newTestGateway(h, &fakeCreds{token: "abc"})
	defer srv.Close()

	blob, err := g.DoBinary(context.Background(), &Request{Method: http.MethodGet, Path: "/attachments/9/download"})
	if err != nil {
		t.Fatalf("DoBinary() error = %v", err)
	}
	if string(blob.Data) != "%PDF-1.4 fake bytes" {
		t.Errorf("Data = %q", blob.Data)
	}
	if blob.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q, want application/pdf", blob.ContentType)
	}
}

func TestGateway_DoBinary_AuthErrorStillClassified(t *testing.T) {
	h := &testHandler{statusCode: http.StatusUnauthorized, responseBody: `{"message":"expired"}`}
	creds := &fakeCreds{token: "abc"}
	g, srv := newTestGateway(h, creds)
	defer srv.Close()

	_, err := g.DoBinary(context.Background(), &Request{Method: http.MethodGet, Path: "/attachments/9/download"})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v (%T), want *AuthError", err, err)
	}
	if creds.invalidated != 1 {
		t.Errorf("invalidated %d times, want 1", creds.invalidated)
	}
}

func TestGateway_RawBodyReader(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	g, srv := newTestGateway(h, nil)
	defer srv.Close()

	req := &Request{
		Method:      http.MethodPost,
		Path:        "/users/1/avatar",
		BodyReader:  strings.NewReader("raw multipart payload"),
		ContentType: "multipart/form-data; boundary=xyz",
	}
	if err := g.Do(context.Background(), req, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if h.body != "raw multipart payload" {
		t.Errorf("body = %q, want raw payload passed through", h.body)
	}
	if !strings.HasPrefix(h.contentType, "multipart/form-data") {
		t.Errorf("content-type = %q, want multipart", h.contentType)
	}
}
