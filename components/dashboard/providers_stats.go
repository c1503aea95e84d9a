package dashboard

import (
	"context"
	"fmt"
)

type statsCardsProvider struct {
	deps ProviderDeps
}

func (p *statsCardsProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	state, err := runLoader(ctx, p.deps, meta, FallbackStatsSummary,
		func(ctx context.Context, out *StatsSummary) error {
			overview, err := p.deps.Repositories.Overview.FetchOverview(ctx)
			if err != nil {
				return err
			}
			*out = SummarizeOverview(overview)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	s := state.Data
	cards := []map[string]any{
		statCard("Total Users", FormatCount(s.TotalUsers), s.Changes[0], "users"),
		statCard("Disease Detections", FormatCount(s.TotalDetections), s.Changes[1], "activity"),
		statCard("Success Rate", fmt.Sprintf("%d%%", s.SuccessRate), s.Changes[2], "trending-up"),
		statCard("Active Regions", FormatCount(s.ActiveRegions), s.Changes[3], "map-pin"),
	}
	return withSource(WidgetData{"cards": cards}, state.Source), nil
}

func statCard(title, value string, change int, icon string) map[string]any {
	return map[string]any{
		"title":    title,
		"value":    value,
		"change":   fmt.Sprintf("%+d%%", change),
		"positive": change >= 0,
		"icon":     icon,
	}
}
