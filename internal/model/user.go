package model

// Role controls what a user may do in the tool.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// User is the identity record the server returns for accounts.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	JobTitle  string `json:"jobTitle,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload for creating a new account.
// Role defaults to VIEWER when left empty.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	JobTitle string `json:"jobTitle,omitempty"`
	Role     Role   `json:"role,omitempty"`
}
