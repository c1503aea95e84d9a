package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Demo operator credentials.
const (
	DemoEmail    = "admin@mkulima.ai"
	DemoPassword = "admin"
)

const (
	demoIssuer   = "mkulima-dashboard"
	demoTokenTTL = 24 * time.Hour
)

var errMissingSecret = errors.New("auth: jwt secret is required")

// DemoIdentity accepts the single built-in operator and signs HS256 tokens.
type DemoIdentity struct {
	secret []byte
	hash   []byte
	user   User
	ttl    time.Duration
	now    func() time.Time
}

// DemoOption customises a DemoIdentity.
type DemoOption func(*DemoIdentity)

// WithDemoClock overrides the clock used for token timestamps.
func WithDemoClock(now func() time.Time) DemoOption {
	return func(d *DemoIdentity) {
		if now != nil {
			d.now = now
		}
	}
}

// WithDemoTTL overrides the token lifetime.
func WithDemoTTL(ttl time.Duration) DemoOption {
	return func(d *DemoIdentity) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// NewDemoIdentity hashes the demo password and prepares the signer.
func NewDemoIdentity(secret []byte, opts ...DemoOption) (*DemoIdentity, error) {
	if len(secret) == 0 {
		return nil, errMissingSecret
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash demo password: %w", err)
	}
	d := &DemoIdentity{
		secret: secret,
		hash:   hash,
		ttl:    demoTokenTTL,
		now:    time.Now,
		user: User{
			ID:          "1",
			Name:        "Admin User",
			Email:       DemoEmail,
			Role:        "Administrator",
			Permissions: []string{"read", "write", "admin"},
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Authenticate checks creds against the demo operator.
func (d *DemoIdentity) Authenticate(_ context.Context, creds Credentials) (Session, error) {
	if !strings.EqualFold(strings.TrimSpace(creds.Email), DemoEmail) {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(d.hash, []byte(creds.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	now := d.now()
	claims := jwt.RegisteredClaims{
		Issuer:    demoIssuer,
		Subject:   d.user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return Session{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return Session{Token: token, User: d.user}, nil
}

// Verify rejects tokens not signed by this identity or already expired.
func (d *DemoIdentity) Verify(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return d.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(demoIssuer),
		jwt.WithTimeFunc(d.now),
	)
	if err != nil {
		return fmt.Errorf("auth: verify token: %w", err)
	}
	if !parsed.Valid {
		return errors.New("auth: token is not valid")
	}
	return nil
}
