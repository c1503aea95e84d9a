package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

// SessionInput is empty; the caller's session travels on the context.
type SessionInput struct{}

// SessionInfo describes the current session without exposing the token.
type SessionInfo struct {
	State         string     `json:"state"`
	Authenticated bool       `json:"authenticated"`
	User          *auth.User `json:"user,omitempty"`
}

type sessionReader interface {
	State(id string) auth.State
}

// SessionQuery reports the session state.
type SessionQuery struct {
	sessions sessionReader
}

// NewSessionQuery builds the query.
func NewSessionQuery(sessions sessionReader) *SessionQuery {
	return &SessionQuery{sessions: sessions}
}

var _ gocommand.Querier[SessionInput, SessionInfo] = (*SessionQuery)(nil)

// Query returns the caller's lifecycle state and the user when signed in.
// A session on ctx that the store has since ended reports anonymous.
func (q *SessionQuery) Query(ctx context.Context, _ SessionInput) (SessionInfo, error) {
	session, _ := auth.SessionFromContext(ctx)
	state := q.sessions.State(session.ID)
	info := SessionInfo{State: state.String()}
	if state == auth.StateAuthenticated {
		info.Authenticated = true
		info.User = &session.User
	}
	return info, nil
}
