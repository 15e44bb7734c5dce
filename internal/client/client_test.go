package client

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/florishenkelman/gdpr-tool/internal/api"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	calls         int
	method        string
	path          string
	query         string
	body          string
	contentType   string
	authorization string

	// canned response
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

// staticCreds is a fixed credential source; a zero value is an anonymous caller.
type staticCreds struct {
	token       string
	invalidated int
}

func (c *staticCreds) Token() string { return c.token }
func (c *staticCreds) Invalidate()   { c.invalidated++ }

// newTestClient creates a Client pointed at a test server with the given handler.
func newTestClient(h http.Handler, creds api.CredentialSource) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	return New(api.New(srv.URL, creds)), srv
}
