package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

// Repository adapts the analytics and users clients to the dashboard
// repository interfaces.
type Repository struct {
	analytics AnalyticsClient
	users     UsersClient
}

// NewRepository wires the clients. Either may be nil, in which case the
// matching fetches fail with dashboard.ErrOffline.
func NewRepository(analytics AnalyticsClient, users UsersClient) *Repository {
	return &Repository{analytics: analytics, users: users}
}

// Repositories exposes r through every dashboard repository slot.
func (r *Repository) Repositories() dashboard.Repositories {
	return dashboard.Repositories{
		Overview:  r,
		Trends:    r,
		Regional:  r,
		Growth:    r,
		UserStats: r,
	}
}

func (r *Repository) FetchOverview(ctx context.Context) (dashboard.Overview, error) {
	if r.analytics == nil {
		return dashboard.Overview{}, dashboard.ErrOffline
	}
	return r.analytics.Overview(ctx)
}

func (r *Repository) FetchDiseaseTrends(ctx context.Context, days int) ([]dashboard.TrendPoint, error) {
	if r.analytics == nil {
		return nil, dashboard.ErrOffline
	}
	return r.analytics.DiseaseTrends(ctx, days)
}

func (r *Repository) FetchRegionalInsights(ctx context.Context) (map[string]dashboard.RegionalInsight, error) {
	if r.analytics == nil {
		return nil, dashboard.ErrOffline
	}
	return r.analytics.RegionalInsights(ctx)
}

func (r *Repository) FetchUserGrowth(ctx context.Context) ([]dashboard.GrowthPoint, error) {
	if r.analytics == nil {
		return nil, dashboard.ErrOffline
	}
	return r.analytics.UserGrowth(ctx)
}

func (r *Repository) FetchUserStats(ctx context.Context, userID string) (dashboard.UserStats, error) {
	if r.users == nil {
		return dashboard.UserStats{}, dashboard.ErrOffline
	}
	return r.users.Stats(ctx, userID)
}

// Repositories wires every dashboard repository to c.
func (c *HTTPClient) Repositories() dashboard.Repositories {
	return NewRepository(c.Analytics, c.Users).Repositories()
}

// DiseaseForwarder sends submitted diseases to the API.
type DiseaseForwarder struct {
	client DiseasesClient
	logger *zap.Logger
}

// NewDiseaseForwarder builds a sink posting to client.
func NewDiseaseForwarder(client DiseasesClient, logger *zap.Logger) *DiseaseForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiseaseForwarder{client: client, logger: logger}
}

// SubmitDisease implements dashboard.DiseaseSink.
func (f *DiseaseForwarder) SubmitDisease(ctx context.Context, disease dashboard.Disease) (dashboard.Disease, error) {
	stored, err := f.client.Submit(ctx, disease)
	if err != nil {
		return dashboard.Disease{}, err
	}
	f.logger.Info("disease forwarded",
		zap.String("id", stored.ID),
		zap.String("name", stored.Name),
	)
	return stored, nil
}

var (
	_ dashboard.OverviewRepository  = (*Repository)(nil)
	_ dashboard.TrendsRepository    = (*Repository)(nil)
	_ dashboard.RegionalRepository  = (*Repository)(nil)
	_ dashboard.GrowthRepository    = (*Repository)(nil)
	_ dashboard.UserStatsRepository = (*Repository)(nil)
	_ dashboard.DiseaseSink         = (*DiseaseForwarder)(nil)
)
