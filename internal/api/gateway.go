// Package api implements the single choke point through which every resource
// call reaches the remote GDPR service. The Gateway attaches the session
// credential to outgoing requests, classifies failures, and signals the
// session owner when the server rejects the credential.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/florishenkelman/gdpr-tool/internal/idgen"
)

// CredentialSource supplies the bearer token for outgoing requests and
// receives the invalidation signal when the server rejects it. It is
// implemented by session.Manager.
type CredentialSource interface {
	// Token returns the current credential, or "" when none is held.
	Token() string
	// Invalidate discards the credential and resets the session.
	Invalidate()
}

// Request describes one unit of work for the Gateway. It is constructed per
// call and discarded after completion.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil. BodyReader takes precedence and is
	// sent raw with ContentType (multipart uploads).
	Body        any
	BodyReader  io.Reader
	ContentType string

	// NoAuth marks calls that do not require credentials. The default
	// (zero value) attaches the bearer token when one is held.
	NoAuth bool
}

// Blob is a decoded binary response: the raw bytes plus the content type the
// server declared.
type Blob struct {
	Data        []byte
	ContentType string
}

// Gateway executes Requests against a base URL. It never reshapes or
// validates business payloads; bodies pass through unmodified.
type Gateway struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
}

// New creates a Gateway targeting the given base URL
// (e.g. "http://localhost:8080"). creds may be nil for unauthenticated use.
func New(baseURL string, creds CredentialSource) *Gateway {
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{},
	}
}

// Do executes the request and decodes the JSON response into result.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (g *Gateway) Do(ctx context.Context, req *Request, result any) error {
	resp, err := g.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if err := g.classify(req, resp.StatusCode, respBody); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// DoBinary executes the request and returns the raw response body with its
// declared content type. Used for attachment downloads.
func (g *Gateway) DoBinary(ctx context.Context, req *Request) (*Blob, error) {
	resp, err := g.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if err := g.classify(req, resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Blob{Data: respBody, ContentType: contentType}, nil
}

// send builds and executes the HTTP request. A transport-level failure is
// classified as *NetworkError; response statuses are classified by the caller.
func (g *Gateway) send(ctx context.Context, req *Request) (*http.Response, error) {
	var bodyReader io.Reader
	contentType := ""

	switch {
	case req.BodyReader != nil:
		bodyReader = req.BodyReader
		contentType = req.ContentType
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	u := g.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if !req.NoAuth && g.creds != nil {
		if token := g.creds.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if id, err := idgen.Generate(); err == nil {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}

// classify maps a non-2xx status to the error taxonomy. A 401 or 403 on a
// credentialed call invalidates the session before the error is returned, so
// callers cannot keep acting on a stale credential.
func (g *Gateway) classify(req *Request, statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}

	message := serverMessage(body)

	if (statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden) && !req.NoAuth {
		if g.creds != nil {
			g.creds.Invalidate()
		}
		return &AuthError{StatusCode: statusCode, Message: message}
	}

	return &APIError{StatusCode: statusCode, Message: message}
}

// serverMessage extracts the error text from a response body, trying the
// "message" field first, then "error", then the raw body.
func serverMessage(body []byte) string {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	return string(body)
}
