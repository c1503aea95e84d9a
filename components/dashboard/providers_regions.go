package dashboard

import (
	"context"
	"slices"
	"sort"
)

type diseaseMapProvider struct {
	deps ProviderDeps
}

func (p *diseaseMapProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	state, err := runLoader(ctx, p.deps, meta, FallbackRegions,
		func(ctx context.Context, out *map[string]RegionalInsight) error {
			insights, err := p.deps.Repositories.Regional.FetchRegionalInsights(ctx)
			*out = insights
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	selected := meta.Param("region", "")
	regions := make([]map[string]any, 0, len(state.Data))
	for _, name := range RegionNames(state.Data) {
		insight := state.Data[name]
		regions = append(regions, map[string]any{
			"name":        name,
			"cases":       FormatCount(insight.Cases),
			"color":       string(CaseSeverity(insight.Cases)),
			"top_disease": insight.TopDisease(),
			"selected":    name == selected,
		})
	}
	data := WidgetData{
		"title":   "Disease Distribution by Region",
		"regions": regions,
		"legend": []map[string]any{
			{"color": string(ColorGreen), "label": "Low (0-200)"},
			{"color": string(ColorYellow), "label": "Medium (201-500)"},
			{"color": string(ColorOrange), "label": "High (501-1000)"},
			{"color": string(ColorRed), "label": "Critical (1000+)"},
		},
	}
	if insight, ok := state.Data[selected]; ok {
		data["details"] = regionDetails(selected, insight)
	}
	return withSource(data, state.Source), nil
}

// RegionNames orders regions by the canonical Kenyan region list, then alphabetically.
func RegionNames(insights map[string]RegionalInsight) []string {
	names := make([]string, 0, len(insights))
	for name := range insights {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := slices.Index(KenyanRegions, names[i]), slices.Index(KenyanRegions, names[j])
		switch {
		case a >= 0 && b >= 0:
			return a < b
		case a >= 0:
			return true
		case b >= 0:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func regionDetails(name string, insight RegionalInsight) map[string]any {
	details := map[string]any{
		"name":         name,
		"cases":        FormatCount(insight.Cases),
		"color":        string(CaseSeverity(insight.Cases)),
		"success_rate": "N/A",
		"active_users": "N/A",
	}
	if insight.SuccessRate != nil {
		details["success_rate"] = FormatRate(*insight.SuccessRate)
	}
	if insight.ActiveUsers != nil {
		details["active_users"] = FormatCount(*insight.ActiveUsers)
	}
	diseases := make([]map[string]any, 0, len(insight.TopDiseases))
	for _, d := range insight.TopDiseases {
		entry := map[string]any{"disease": d.Disease}
		if d.Count > 0 {
			entry["count"] = FormatCount(d.Count)
		}
		diseases = append(diseases, entry)
	}
	details["top_diseases"] = diseases
	return details
}
