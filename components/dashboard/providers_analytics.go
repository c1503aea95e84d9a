package dashboard

import (
	"context"
)

var analyticsTabs = []string{"overview", "regional", "trends", "diseases"}

type analyticsView struct {
	Overview Overview
	Trends   []TrendPoint
	Regional map[string]RegionalInsight
}

type analyticsReportProvider struct {
	deps ProviderDeps
}

func (p *analyticsReportProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	days := intValue(meta.Instance.Configuration["trend_days"], 7)
	fallback := func() analyticsView {
		return analyticsView{
			Overview: FallbackOverview(),
			Trends:   FallbackTrends(days),
			Regional: FallbackRegionalInsights(),
		}
	}
	repos := p.deps.Repositories
	state, err := runLoader(ctx, p.deps, meta, fallback,
		func(ctx context.Context, out *analyticsView) error {
			overview, err := repos.Overview.FetchOverview(ctx)
			out.Overview = overview
			return err
		},
		func(ctx context.Context, out *analyticsView) error {
			trends, err := repos.Trends.FetchDiseaseTrends(ctx, days)
			out.Trends = trends
			return err
		},
		func(ctx context.Context, out *analyticsView) error {
			regional, err := repos.Regional.FetchRegionalInsights(ctx)
			out.Regional = regional
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	tab := meta.Param("tab", "overview")
	tabs := make([]map[string]any, 0, len(analyticsTabs))
	found := false
	for _, name := range analyticsTabs {
		tabs = append(tabs, map[string]any{"name": name, "active": name == tab})
		found = found || name == tab
	}
	if !found {
		tab = "overview"
		tabs[0]["active"] = true
	}

	v := state.Data
	data := WidgetData{
		"title": "Analytics",
		"tab":   tab,
		"tabs":  tabs,
		"metrics": []map[string]any{
			{"label": "Success Rate", "value": FormatRate(v.Overview.SuccessRate)},
			{"label": "Total Detections", "value": FormatCount(v.Overview.TotalDetections)},
			{"label": "Active Today", "value": FormatCount(v.Overview.ActiveToday)},
			{"label": "Total Users", "value": FormatCount(v.Overview.TotalUsers)},
		},
	}

	renders := map[string]ChartSpec{}
	if len(v.Overview.CommonDiseases) > 0 {
		renders["overview_html"] = ChartSpec{
			Kind:   ChartPie,
			Title:  "Common Diseases",
			Series: []ChartSeries{{Name: "Detections", Points: countPoints(v.Overview.CommonDiseases)}},
		}
		renders["diseases_html"] = ChartSpec{
			Kind:   ChartBar,
			Title:  "Detections by Disease",
			Series: []ChartSeries{{Name: "Detections", Points: countPoints(v.Overview.CommonDiseases)}},
		}
	}
	if len(v.Regional) > 0 {
		renders["regional_html"] = regionalChart(v.Regional)
		data["regions"] = regionalRows(v.Regional)
	}
	if len(v.Trends) > 0 {
		renders["trends_html"] = TrendChart("Detection Trends", v.Trends, []string{"total", string(PlantMaize), string(PlantCoffee)}, meta.Viewer.Locale)
	}
	for key, spec := range renders {
		html, err := p.deps.Charts.Render(meta.Viewer, spec)
		if err != nil {
			return nil, err
		}
		data[key] = html
	}
	return withSource(data, state.Source), nil
}

func regionalChart(insights map[string]RegionalInsight) ChartSpec {
	names := RegionNames(insights)
	cases := ChartSeries{Name: "Cases", Points: make([]ChartPoint, len(names))}
	users := ChartSeries{Name: "Active Users", Points: make([]ChartPoint, len(names))}
	hasUsers := false
	for i, name := range names {
		insight := insights[name]
		cases.Points[i] = ChartPoint{Label: name, Value: float64(insight.Cases)}
		if insight.ActiveUsers != nil {
			hasUsers = true
			users.Points[i] = ChartPoint{Label: name, Value: float64(*insight.ActiveUsers)}
		} else {
			users.Points[i] = ChartPoint{Label: name}
		}
	}
	series := []ChartSeries{cases}
	if hasUsers {
		series = append(series, users)
	}
	return ChartSpec{Kind: ChartBar, Title: "Regional Distribution", XAxis: names, Series: series}
}

func regionalRows(insights map[string]RegionalInsight) []map[string]any {
	rows := make([]map[string]any, 0, len(insights))
	for _, name := range RegionNames(insights) {
		rows = append(rows, regionDetails(name, insights[name]))
	}
	return rows
}

type userGrowthProvider struct {
	deps ProviderDeps
}

func (p *userGrowthProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	state, err := runLoader(ctx, p.deps, meta, FallbackUserGrowth,
		func(ctx context.Context, out *[]GrowthPoint) error {
			growth, err := p.deps.Repositories.Growth.FetchUserGrowth(ctx)
			*out = growth
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	data := WidgetData{"title": "User Growth"}
	if len(state.Data) > 0 {
		axis := make([]string, len(state.Data))
		added := ChartSeries{Name: "New Users", Points: make([]ChartPoint, len(state.Data))}
		total := ChartSeries{Name: "Total Users", Points: make([]ChartPoint, len(state.Data))}
		for i, g := range state.Data {
			axis[i] = g.Period
			added.Points[i] = ChartPoint{Label: g.Period, Value: float64(g.NewUsers)}
			total.Points[i] = ChartPoint{Label: g.Period, Value: float64(g.TotalUsers)}
		}
		html, err := p.deps.Charts.Render(meta.Viewer, ChartSpec{
			Kind:   ChartLine,
			Title:  "User Growth",
			XAxis:  axis,
			Series: []ChartSeries{added, total},
		})
		if err != nil {
			return nil, err
		}
		data["chart_html"] = html
	}
	return withSource(data, state.Source), nil
}
