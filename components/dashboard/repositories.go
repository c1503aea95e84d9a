package dashboard

import (
	"context"
	"errors"
)

// ErrOffline is returned by repositories when no API is configured.
var ErrOffline = errors.New("dashboard: analytics API not configured")

// OverviewRepository loads the platform overview.
type OverviewRepository interface {
	FetchOverview(ctx context.Context) (Overview, error)
}

// TrendsRepository loads daily detections per crop.
type TrendsRepository interface {
	FetchDiseaseTrends(ctx context.Context, days int) ([]TrendPoint, error)
}

// RegionalRepository loads detections grouped by region.
type RegionalRepository interface {
	FetchRegionalInsights(ctx context.Context) (map[string]RegionalInsight, error)
}

// GrowthRepository loads the user growth curve.
type GrowthRepository interface {
	FetchUserGrowth(ctx context.Context) ([]GrowthPoint, error)
}

// UserStatsRepository loads per-user detection stats.
type UserStatsRepository interface {
	FetchUserStats(ctx context.Context, userID string) (UserStats, error)
}

// DiseaseSink receives diseases submitted through the disease form.
type DiseaseSink interface {
	SubmitDisease(ctx context.Context, disease Disease) (Disease, error)
}

// Repositories bundles every data source the widgets read from.
type Repositories struct {
	Overview  OverviewRepository
	Trends    TrendsRepository
	Regional  RegionalRepository
	Growth    GrowthRepository
	UserStats UserStatsRepository
}

func (r Repositories) withDefaults() Repositories {
	if r.Overview == nil {
		r.Overview = OfflineRepository{}
	}
	if r.Trends == nil {
		r.Trends = OfflineRepository{}
	}
	if r.Regional == nil {
		r.Regional = OfflineRepository{}
	}
	if r.Growth == nil {
		r.Growth = OfflineRepository{}
	}
	if r.UserStats == nil {
		r.UserStats = OfflineRepository{}
	}
	return r
}

// OfflineRepository fails every call so widgets render their fallback data.
type OfflineRepository struct{}

func (OfflineRepository) FetchOverview(context.Context) (Overview, error) {
	return Overview{}, ErrOffline
}

func (OfflineRepository) FetchDiseaseTrends(context.Context, int) ([]TrendPoint, error) {
	return nil, ErrOffline
}

func (OfflineRepository) FetchRegionalInsights(context.Context) (map[string]RegionalInsight, error) {
	return nil, ErrOffline
}

func (OfflineRepository) FetchUserGrowth(context.Context) ([]GrowthPoint, error) {
	return nil, ErrOffline
}

func (OfflineRepository) FetchUserStats(context.Context, string) (UserStats, error) {
	return UserStats{}, ErrOffline
}
