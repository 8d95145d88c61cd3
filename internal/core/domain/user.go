package domain

// User is the authenticated principal as reported by the backend login call.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	RawRole      string `json:"role"`
	AdminSubtype string `json:"adminType,omitempty"`
}

// Role derives the computed role. It is never stored on its own.
func (u User) Role() Role {
	return ResolveRole(u.RawRole, u.AdminSubtype)
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session pairs the bearer token with the user it was issued for.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Complete reports whether both halves of the session are present.
func (s Session) Complete() bool {
	return s.Token != "" && s.User.Username != ""
}

// Role is a shorthand for s.User.Role().
func (s Session) Role() Role {
	return s.User.Role()
}
