package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

// DefaultBaseURL is used when no API_BASE_URL is configured.
const DefaultBaseURL = "http://localhost:5000/api/v1"

const (
	defaultTimeout = 30 * time.Second
	retryBackoff   = 200 * time.Millisecond
	maxErrorBody   = 512
)

var errMissingBaseURL = errors.New("api: base url is required")

// TokenSource supplies the bearer token for an outgoing request.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token(context.Context) string { return string(t) }

// SessionTokens sends the token of the session carried on the request
// context, so each operator calls the API as themselves.
type SessionTokens struct{}

func (SessionTokens) Token(ctx context.Context) string {
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return ""
	}
	return session.Token
}

// HTTPConfig configures the REST client.
type HTTPConfig struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	// Timeout bounds each attempt. Zero means 30s.
	Timeout time.Duration
	// RetryAttempts is the number of extra attempts for GETs that failed at
	// the network level. Zero disables retries.
	RetryAttempts int
	Logger        *zap.Logger
}

// HTTPClient talks to the Mkulima REST API. Endpoints are grouped by resource.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
	timeout time.Duration
	retries int
	backoff time.Duration
	logger  *zap.Logger

	Auth      *AuthAPI
	Analytics *AnalyticsAPI
	Users     *UsersAPI
	Diseases  *DiseasesAPI
}

// NewHTTPClient builds a client for cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errMissingBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &HTTPClient{
		baseURL: base,
		tokens:  cfg.Tokens,
		client:  httpClient,
		timeout: timeout,
		retries: max(cfg.RetryAttempts, 0),
		backoff: retryBackoff,
		logger:  logger,
	}
	c.Auth = &AuthAPI{c: c}
	c.Analytics = &AnalyticsAPI{c: c}
	c.Users = &UsersAPI{c: c}
	c.Diseases = &DiseasesAPI{c: c}
	return c, nil
}

// BaseURL returns the normalised API root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload, target any) error {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encode payload: %w", err)
		}
		body = encoded
	}
	for attempt := 0; ; attempt++ {
		err := c.once(ctx, method, path, body, target)
		if err == nil || !c.retryable(ctx, method, err, attempt) {
			return err
		}
		c.logger.Warn("api request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(c.backoff):
		}
	}
}

func (c *HTTPClient) retryable(ctx context.Context, method string, err error, attempt int) bool {
	return method == http.MethodGet &&
		attempt < c.retries &&
		IsNetworkError(err) &&
		ctx.Err() == nil
}

func (c *HTTPClient) once(ctx context.Context, method, path string, body []byte, target any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			Kind:   KindStatus,
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   truncate(strings.TrimSpace(string(raw)), maxErrorBody),
		}
	}
	if target == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &RequestError{Kind: KindDecode, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
