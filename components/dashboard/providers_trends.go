package dashboard

import (
	"context"
	"slices"
	"sort"
)

const defaultTrendDays = 30

var cropOrder = []string{
	string(PlantMaize),
	string(PlantCoffee),
	string(PlantTomato),
	string(PlantBanana),
	string(PlantBeans),
}

type trendsView struct {
	Trends   []TrendPoint
	Diseases []DiseaseCount
}

type analyticsChartProvider struct {
	deps ProviderDeps
}

func (p *analyticsChartProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	days := intValue(meta.Instance.Configuration["days"], defaultTrendDays)
	fallback := func() trendsView {
		return trendsView{Trends: FallbackTrends(days), Diseases: FallbackDiseaseDistribution()}
	}
	state, err := runLoader(ctx, p.deps, meta, fallback,
		func(ctx context.Context, out *trendsView) error {
			trends, err := p.deps.Repositories.Trends.FetchDiseaseTrends(ctx, days)
			out.Trends = trends
			return err
		},
		func(ctx context.Context, out *trendsView) error {
			overview, err := p.deps.Repositories.Overview.FetchOverview(ctx)
			out.Diseases = overview.CommonDiseases
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	tab := meta.Param("tab", "trends")
	if tab != "diseases" {
		tab = "trends"
	}
	title := chartTitle(meta.Instance.Configuration, "Disease Analytics")
	data := WidgetData{"title": title, "tab": tab, "days": days}

	if len(state.Data.Trends) > 0 {
		html, err := p.deps.Charts.Render(meta.Viewer, TrendChart("Disease Trends", state.Data.Trends, nil, meta.Viewer.Locale))
		if err != nil {
			return nil, err
		}
		data["trends_html"] = html
	}
	if len(state.Data.Diseases) > 0 {
		html, err := p.deps.Charts.Render(meta.Viewer, ChartSpec{
			Kind:   ChartPie,
			Title:  "Disease Distribution",
			Series: []ChartSeries{{Name: "Detections", Points: countPoints(state.Data.Diseases)}},
		})
		if err != nil {
			return nil, err
		}
		data["diseases_html"] = html
	}
	return withSource(data, state.Source), nil
}

// TrendChart builds a line chart with one series per crop. When crops is
// empty every crop present in the points is plotted. The pseudo crop "total"
// plots the daily totals.
func TrendChart(title string, points []TrendPoint, crops []string, locale string) ChartSpec {
	if len(crops) == 0 {
		crops = trendCrops(points)
	}
	axis := make([]string, len(points))
	for i, p := range points {
		axis[i] = p.Date.Format("Jan 02")
	}
	series := make([]ChartSeries, 0, len(crops))
	for _, crop := range crops {
		name := PlantLabel(PlantType(crop), locale)
		if crop == "total" {
			name = "Total Detections"
		}
		s := ChartSeries{Name: name, Points: make([]ChartPoint, len(points))}
		for i, p := range points {
			value := p.Counts[crop]
			if crop == "total" {
				value = p.Total
			}
			s.Points[i] = ChartPoint{Label: axis[i], Value: float64(value)}
		}
		series = append(series, s)
	}
	return ChartSpec{Kind: ChartLine, Title: title, XAxis: axis, Series: series}
}

func trendCrops(points []TrendPoint) []string {
	seen := map[string]struct{}{}
	for _, p := range points {
		for crop := range p.Counts {
			seen[crop] = struct{}{}
		}
	}
	var known, extra []string
	for _, crop := range cropOrder {
		if _, ok := seen[crop]; ok {
			known = append(known, crop)
		}
	}
	for crop := range seen {
		if !slices.Contains(cropOrder, crop) {
			extra = append(extra, crop)
		}
	}
	sort.Strings(extra)
	return append(known, extra...)
}
