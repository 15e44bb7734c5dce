package api

import "fmt"

// NetworkError means the request never produced a response: the server was
// unreachable, the connection dropped, or the context was canceled. It is
// never retried automatically; callers decide whether to try again.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError means the server rejected the presented credentials (401 or 403
// on a credentialed call). Raising it has already invalidated the session as
// a side effect; callers cannot observe an authenticated state after it.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("authentication failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// APIError represents any other non-2xx response from the server, surfaced
// verbatim with the status code and the server-supplied message when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
