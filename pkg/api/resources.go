package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

// DefaultTrendDays is the window requested when days is not positive.
const DefaultTrendDays = 30

// AuthAPI groups the authentication endpoints.
type AuthAPI struct{ c *HTTPClient }

// LoginResult is the session issued by POST /login.
type LoginResult struct {
	Token string
	User  auth.User
}

// Login exchanges an email for a token.
func (a *AuthAPI) Login(ctx context.Context, email string) (LoginResult, error) {
	var resp loginResponse
	if err := a.c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email}, &resp); err != nil {
		return LoginResult{}, err
	}
	return resp.toResult(email), nil
}

// AnalyticsAPI groups the analytics endpoints.
type AnalyticsAPI struct{ c *HTTPClient }

// Overview fetches the platform totals.
func (a *AnalyticsAPI) Overview(ctx context.Context) (dashboard.Overview, error) {
	const path = "/analytics/overview"
	var resp overviewResponse
	if err := a.c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return dashboard.Overview{}, err
	}
	overview, err := resp.toOverview()
	if err != nil {
		return dashboard.Overview{}, decodeError(http.MethodGet, path, err)
	}
	return overview, nil
}

// DiseaseTrends fetches daily detections per crop over the last days.
func (a *AnalyticsAPI) DiseaseTrends(ctx context.Context, days int) ([]dashboard.TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	path := "/analytics/disease-trends?" + url.Values{"days": {strconv.Itoa(days)}}.Encode()
	var resp trendsResponse
	if err := a.c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	points, err := resp.toPoints()
	if err != nil {
		return nil, decodeError(http.MethodGet, path, err)
	}
	return points, nil
}

// RegionalInsights fetches detections grouped by region.
func (a *AnalyticsAPI) RegionalInsights(ctx context.Context) (map[string]dashboard.RegionalInsight, error) {
	const path = "/analytics/regional-insights"
	var resp regionalResponse
	if err := a.c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	insights, err := resp.toInsights()
	if err != nil {
		return nil, decodeError(http.MethodGet, path, err)
	}
	return insights, nil
}

// UserGrowth fetches the registration curve.
func (a *AnalyticsAPI) UserGrowth(ctx context.Context) ([]dashboard.GrowthPoint, error) {
	const path = "/analytics/user-growth"
	var resp growthResponse
	if err := a.c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.toPoints(), nil
}

// UsersAPI groups the farmer endpoints.
type UsersAPI struct{ c *HTTPClient }

// Stats fetches detection stats for one farmer.
func (u *UsersAPI) Stats(ctx context.Context, userID string) (dashboard.UserStats, error) {
	path := "/users/" + url.PathEscape(userID) + "/stats"
	var resp statsResponse
	if err := u.c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return dashboard.UserStats{}, err
	}
	stats, err := resp.toStats()
	if err != nil {
		return dashboard.UserStats{}, decodeError(http.MethodGet, path, err)
	}
	return stats, nil
}

// DiseasesAPI groups the disease catalogue endpoints.
type DiseasesAPI struct{ c *HTTPClient }

// Submit posts a new disease record and returns it as stored upstream.
func (d *DiseasesAPI) Submit(ctx context.Context, disease dashboard.Disease) (dashboard.Disease, error) {
	var resp diseaseResponse
	if err := d.c.do(ctx, http.MethodPost, "/diseases", disease, &resp); err != nil {
		return dashboard.Disease{}, err
	}
	if resp.Disease == nil {
		return disease, nil
	}
	return *resp.Disease, nil
}

func decodeError(method, path string, err error) error {
	return &RequestError{Kind: KindDecode, Method: method, Path: path, Status: http.StatusOK, Err: err}
}
