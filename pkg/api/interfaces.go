package api

import (
	"context"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

// AuthClient exchanges credentials for a session token.
type AuthClient interface {
	Login(ctx context.Context, email string) (LoginResult, error)
}

// AnalyticsClient fetches the aggregate analytics views.
type AnalyticsClient interface {
	Overview(ctx context.Context) (dashboard.Overview, error)
	DiseaseTrends(ctx context.Context, days int) ([]dashboard.TrendPoint, error)
	RegionalInsights(ctx context.Context) (map[string]dashboard.RegionalInsight, error)
	UserGrowth(ctx context.Context) ([]dashboard.GrowthPoint, error)
}

// UsersClient fetches per-farmer data.
type UsersClient interface {
	Stats(ctx context.Context, userID string) (dashboard.UserStats, error)
}

// DiseasesClient submits disease records.
type DiseasesClient interface {
	Submit(ctx context.Context, disease dashboard.Disease) (dashboard.Disease, error)
}

// Client is the union implemented by MockClient.
type Client interface {
	AuthClient
	AnalyticsClient
	UsersClient
	DiseasesClient
}

var (
	_ AuthClient      = (*AuthAPI)(nil)
	_ AnalyticsClient = (*AnalyticsAPI)(nil)
	_ UsersClient     = (*UsersAPI)(nil)
	_ DiseasesClient  = (*DiseasesAPI)(nil)
	_ Client          = (*MockClient)(nil)
)
