package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

// Identity authenticates operators through POST /login. The endpoint only
// takes an email; the password is not sent.
type Identity struct {
	client AuthClient
}

// NewIdentity wraps client as an auth.Identity.
func NewIdentity(client AuthClient) *Identity {
	return &Identity{client: client}
}

func (i *Identity) Authenticate(ctx context.Context, creds auth.Credentials) (auth.Session, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	result, err := i.client.Login(ctx, email)
	if err != nil {
		switch StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, err
	}
	if result.Token == "" {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return auth.Session{Token: result.Token, User: result.User}, nil
}

var _ auth.Identity = (*Identity)(nil)
