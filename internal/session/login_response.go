package session

import (
	"encoding/json"
	"errors"

	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// ErrMalformedLogin is returned when no token can be extracted from a login
// response in any of the accepted shapes.
var ErrMalformedLogin = errors.New("session: login response carries no token")

// loginResponse tolerates both shapes the server is known to produce:
//
//	{"token": "...", "user": {...}}
//	{"data": {"token": "...", "user": {...}}}
//
// Some deployments also return the user record directly under "data" with
// the token at the top level. Normalization resolves each field top-level
// first, then from the data wrapper.
type loginResponse struct {
	Token string          `json:"token"`
	User  *model.User     `json:"user"`
	Data  json.RawMessage `json:"data"`
}

type loginData struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// normalize extracts the token and identity using the documented fallback
// order. The identity falls back to interpreting the data wrapper itself as
// a user record when no nested "user" field is present.
func (r *loginResponse) normalize() (string, *model.User, error) {
	token := r.Token
	user := r.User

	var wrapped loginData
	if len(r.Data) > 0 {
		// Best effort; a non-object data field just yields zero values.
		_ = json.Unmarshal(r.Data, &wrapped)
	}

	if token == "" {
		token = wrapped.Token
	}
	if user == nil {
		user = wrapped.User
	}
	if user == nil && len(r.Data) > 0 {
		var direct model.User
		if err := json.Unmarshal(r.Data, &direct); err == nil && direct.ID != "" {
			user = &direct
		}
	}

	if token == "" {
		return "", nil, ErrMalformedLogin
	}
	if user == nil {
		user = &model.User{}
	}
	return token, user, nil
}
