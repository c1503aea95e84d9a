package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// errViewGone marks a widget whose view unmounted before its data settled.
var errViewGone = errors.New("dashboard: view unmounted before data settled")

// ProviderDeps carries the collaborators shared by the built-in providers.
type ProviderDeps struct {
	Repositories Repositories
	Charts       *ChartRenderer
	Activity     ActivityFeed
	Farmers      FarmerDirectory
	Diseases     DiseaseCatalog
	Logger       *zap.Logger
	Telemetry    Telemetry
}

func (d ProviderDeps) withDefaults() ProviderDeps {
	d.Repositories = d.Repositories.withDefaults()
	if d.Charts == nil {
		d.Charts = NewChartRenderer()
	}
	if d.Activity == nil {
		d.Activity = DefaultActivityFeed()
	}
	if d.Farmers == nil {
		d.Farmers = NewStaticFarmerDirectory(SeedFarmers())
	}
	if d.Diseases == nil {
		d.Diseases = NewStaticDiseaseCatalog(SeedDiseases())
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	d.Telemetry = normalizeTelemetry(d.Telemetry)
	return d
}

// DefaultProviders builds the provider for every built-in widget.
func DefaultProviders(deps ProviderDeps) map[string]Provider {
	deps = deps.withDefaults()
	return map[string]Provider{
		WidgetStatsCards:      &statsCardsProvider{deps: deps},
		WidgetAnalyticsChart:  &analyticsChartProvider{deps: deps},
		WidgetDiseaseMap:      &diseaseMapProvider{deps: deps},
		WidgetAnalyticsReport: &analyticsReportProvider{deps: deps},
		WidgetUserGrowth:      &userGrowthProvider{deps: deps},
		WidgetRecentActivity:  newRecentActivityProvider(deps.Activity),
		WidgetUserManagement:  &userManagementProvider{deps: deps},
		WidgetDiseaseCatalog:  &diseaseCatalogProvider{deps: deps},
		WidgetSettings:        ProviderFunc(settingsData),
	}
}

// RegisterDefaultProviders attaches built-in providers to codes that have a
// definition but no provider yet.
func RegisterDefaultProviders(reg ProviderRegistry, deps ProviderDeps) error {
	for code, provider := range DefaultProviders(deps) {
		if _, ok := reg.Definition(code); !ok {
			continue
		}
		if _, ok := reg.Provider(code); ok {
			continue
		}
		if err := reg.RegisterProvider(code, provider); err != nil {
			return fmt.Errorf("dashboard: register provider %s: %w", code, err)
		}
	}
	return nil
}

// runLoader mounts a loader for one widget and waits for its terminal state.
func runLoader[T any](ctx context.Context, deps ProviderDeps, meta WidgetContext, fallback func() T, tasks ...Task[T]) (ViewState[T], error) {
	view := meta.View
	if view == nil {
		view = MountView(ctx, meta.Instance.Page)
		defer view.Unmount()
	}
	loader := NewLoader(view, fallback, tasks,
		WithLoaderLogger(deps.Logger),
		WithLoaderTelemetry(deps.Telemetry),
		WithLoaderName(meta.Instance.DefinitionID),
	)
	state, applied := loader.Load()
	if !applied {
		return state, errViewGone
	}
	return state, nil
}

func newRecentActivityProvider(feed ActivityFeed) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		limit := intValue(meta.Instance.Configuration["limit"], 10)
		items, err := feed.Recent(ctx, meta.Viewer, limit)
		if err != nil {
			return nil, err
		}
		payload := make([]map[string]any, 0, len(items))
		for _, item := range items {
			payload = append(payload, map[string]any{
				"user":    item.User,
				"action":  item.Action,
				"details": item.Details,
				"ago":     FormatAgo(item.Ago),
			})
		}
		return WidgetData{"title": "Recent Activity", "items": payload}, nil
	})
}
