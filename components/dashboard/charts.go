package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// ChartKind selects the go-echarts chart constructor.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

// ChartThemes lists the themes offered on the settings page.
var ChartThemes = []string{
	types.ThemeWesteros,
	types.ThemeMacarons,
	types.ThemeWonderland,
	types.ThemeWalden,
	types.ThemeChalk,
	types.ThemeVintage,
}

// ChartSpec is a fully resolved chart ready to render.
type ChartSpec struct {
	Kind     ChartKind     `json:"kind"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	XAxis    []string      `json:"x_axis,omitempty"`
	Series   []ChartSeries `json:"series"`
	Theme    string        `json:"theme,omitempty"`
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint is a single labelled value.
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
}

// ThemeResolver selects a chart theme per viewer.
type ThemeResolver func(ViewerContext) string

// ChartRenderer renders chart specs into embeddable HTML.
type ChartRenderer struct {
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
}

// ChartOption customises a ChartRenderer.
type ChartOption func(*ChartRenderer)

// WithChartCache injects a render cache. A nil cache disables caching.
func WithChartCache(cache RenderCache) ChartOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the default theme.
func WithChartTheme(theme string) ChartOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartThemeResolver resolves themes per viewer.
func WithChartThemeResolver(resolver ThemeResolver) ChartOption {
	return func(r *ChartRenderer) {
		r.themeResolver = resolver
	}
}

// WithChartAssetsHost points the ECharts script tags at a CDN.
func WithChartAssetsHost(host string) ChartOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer with a five minute cache by default.
func NewChartRenderer(options ...ChartOption) *ChartRenderer {
	r := &ChartRenderer{
		cache:         NewChartCache(5*time.Minute, 256),
		theme:         types.ThemeWesteros,
		themeResolver: ViewerTheme,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// ViewerTheme picks the viewer's saved chart theme when it is a known one.
func ViewerTheme(viewer ViewerContext) string {
	if slices.Contains(ChartThemes, viewer.Theme) {
		return viewer.Theme
	}
	return ""
}

// Render returns the chart HTML for the viewer.
func (r *ChartRenderer) Render(viewer ViewerContext, spec ChartSpec) (string, error) {
	if len(spec.Series) == 0 {
		return "", fmt.Errorf("dashboard: chart %q has no series", spec.Title)
	}
	if spec.Theme == "" {
		spec.Theme = r.resolveTheme(viewer)
	}
	if len(spec.XAxis) == 0 && spec.Kind != ChartPie {
		spec.XAxis = inferredAxisLabels(spec.Series)
	}
	render := func() (string, error) {
		return r.render(spec)
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(fmt.Sprintf("%s:%s", spec.Kind, specHash(spec)), render)
}

func (r *ChartRenderer) render(spec ChartSpec) (string, error) {
	global := r.globalOptions(spec)
	switch spec.Kind {
	case ChartBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case ChartLine:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case ChartPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		for _, s := range spec.Series {
			pie.AddSeries(s.Name, toPieData(s.Points))
		}
		return renderChart(pie)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart kind %q", spec.Kind)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalOptions(spec ChartSpec) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  spec.Theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func (r *ChartRenderer) resolveTheme(viewer ViewerContext) string {
	if r.themeResolver != nil {
		if theme := r.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if r.theme != "" {
		return r.theme
	}
	return types.ThemeWesteros
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

func inferredAxisLabels(series []ChartSeries) []string {
	var labels []string
	for _, s := range series {
		if len(s.Points) <= len(labels) {
			continue
		}
		labels = make([]string, len(s.Points))
		for i, point := range s.Points {
			if point.Label != "" {
				labels[i] = point.Label
			} else {
				labels[i] = fmt.Sprintf("Item %d", i+1)
			}
		}
	}
	return labels
}

func countPoints(counts []DiseaseCount) []ChartPoint {
	points := make([]ChartPoint, len(counts))
	for i, c := range counts {
		points[i] = ChartPoint{Label: c.Disease, Value: float64(c.Count)}
	}
	return points
}

func chartTitle(cfg map[string]any, fallback string) string {
	if s, ok := cfg["title"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
