package auth

import (
	"context"
	"errors"
	"slices"
)

// Storage key prefixes for a persisted session. A session with id X is kept
// under "auth_token:X" and "user:X"; IndexKey lists the live ids.
const (
	TokenKey = "auth_token"
	UserKey  = "user"
	IndexKey = "sessions"
)

// TokenKeyFor returns the storage key holding the token of session id.
func TokenKeyFor(id string) string { return TokenKey + ":" + id }

// UserKeyFor returns the storage key holding the user of session id.
func UserKeyFor(id string) string { return UserKey + ":" + id }

// State is the lifecycle phase of a client's session.
type State int

const (
	// StateLoading holds for every client until Restore has read durable storage.
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User is the operator signed into the dashboard.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasPermission reports whether the user was granted permission.
func (u User) HasPermission(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

// Session pairs the signed-in user with the bearer token issued for them.
// A token is present iff a user is. ID is the opaque handle the client
// presents to find the session again.
type Session struct {
	ID    string `json:"id,omitempty"`
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether both halves of the session are populated.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != ""
}

// Credentials are submitted by the login form.
type Credentials struct {
	Email    string
	Password string
}

// Identity authenticates credentials and issues a session.
type Identity interface {
	Authenticate(ctx context.Context, creds Credentials) (Session, error)
}

// AuthError is returned when authentication is refused.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Message
}

// ErrInvalidCredentials is returned for unknown emails or wrong passwords.
var ErrInvalidCredentials = &AuthError{Code: "invalid_credentials", Message: "Invalid credentials"}

var errIncompleteSession = errors.New("auth: identity returned an incomplete session")

type sessionKey struct{}

// ContextWithSession stores the session on ctx for downstream handlers.
func ContextWithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by ContextWithSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	session, ok := ctx.Value(sessionKey{}).(Session)
	if !ok || !session.Valid() {
		return Session{}, false
	}
	return session, true
}
