package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

// LoginInput carries the submitted login form. When Result is set it
// receives the opened session so the transport can hand its id to the client.
type LoginInput struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Result   *auth.Session `json:"-"`
}

type loginService interface {
	Login(ctx context.Context, creds auth.Credentials) (auth.Session, error)
}

// LoginCommand signs the operator in through the session store.
type LoginCommand struct {
	sessions  loginService
	telemetry Telemetry
}

// NewLoginCommand creates the command.
func NewLoginCommand(sessions loginService, telemetry Telemetry) *LoginCommand {
	return &LoginCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoginInput] = (*LoginCommand)(nil)

// Execute authenticates msg. Invalid credentials return auth.ErrInvalidCredentials.
func (c *LoginCommand) Execute(ctx context.Context, msg LoginInput) error {
	if c.sessions == nil {
		return errors.New("login command requires session store")
	}
	email := strings.TrimSpace(msg.Email)
	session, err := c.sessions.Login(ctx, auth.Credentials{Email: email, Password: msg.Password})
	if err != nil {
		c.telemetry.Record(ctx, "dashboard.auth.login_failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return err
	}
	if msg.Result != nil {
		*msg.Result = session
	}
	c.telemetry.Record(ctx, "dashboard.auth.login", map[string]any{
		"user_id": session.User.ID,
		"role":    session.User.Role,
	})
	return nil
}

// LogoutInput is empty; the session to end travels on the context.
type LogoutInput struct{}

type logoutService interface {
	Logout(ctx context.Context, id string) error
}

// LogoutCommand ends the caller's session.
type LogoutCommand struct {
	sessions  logoutService
	telemetry Telemetry
}

// NewLogoutCommand creates the command.
func NewLogoutCommand(sessions logoutService, telemetry Telemetry) *LogoutCommand {
	return &LogoutCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LogoutInput] = (*LogoutCommand)(nil)

// Execute ends the session found on ctx. Without one it succeeds and does
// nothing, so signing out twice is harmless.
func (c *LogoutCommand) Execute(ctx context.Context, _ LogoutInput) error {
	if c.sessions == nil {
		return errors.New("logout command requires session store")
	}
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil
	}
	if err := c.sessions.Logout(ctx, session.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.auth.logout", map[string]any{"user_id": session.User.ID})
	return nil
}
