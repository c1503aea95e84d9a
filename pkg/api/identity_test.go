package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

func TestIdentityMapsRejectionToInvalidCredentials(t *testing.T) {
	t.Parallel()
	mock := NewMockClient(MockData{})
	mock.Fail(OpLogin, &RequestError{Kind: KindStatus, Status: 401})
	_, err := NewIdentity(mock).Authenticate(context.Background(), auth.Credentials{Email: "x@example.com"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestIdentityKeepsNetworkErrors(t *testing.T) {
	t.Parallel()
	mock := NewMockClient(MockData{})
	mock.Fail(OpLogin, &RequestError{Kind: KindNetwork, Err: errors.New("refused")})
	_, err := NewIdentity(mock).Authenticate(context.Background(), auth.Credentials{Email: "x@example.com"})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestIdentityIssuesSession(t *testing.T) {
	t.Parallel()
	mock := NewMockClient(MockData{Login: LoginResult{
		Token: "jwt",
		User:  auth.User{ID: "7", Name: "Operator", Role: "Administrator"},
	}})
	session, err := NewIdentity(mock).Authenticate(context.Background(), auth.Credentials{Email: "op@mkulima.ai"})
	require.NoError(t, err)
	assert.True(t, session.Valid())
	assert.Equal(t, "op@mkulima.ai", session.User.Email)

	_, err = NewIdentity(mock).Authenticate(context.Background(), auth.Credentials{Email: "  "})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestIdentityRejectsMissingToken(t *testing.T) {
	t.Parallel()
	mock := NewMockClient(MockData{})
	_, err := NewIdentity(mock).Authenticate(context.Background(), auth.Credentials{Email: "op@mkulima.ai"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
