package dashboard

import (
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartRendererRendersEveryKind(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))
	series := []ChartSeries{{Name: "Detections", Points: []ChartPoint{{Label: "Maize", Value: 10}, {Label: "Coffee", Value: 4}}}}

	for _, kind := range []ChartKind{ChartLine, ChartBar, ChartPie} {
		html, err := renderer.Render(ViewerContext{}, ChartSpec{Kind: kind, Title: "Detections by Crop", Series: series})
		require.NoError(t, err, kind)
		assert.Contains(t, html, "Detections by Crop", kind)
		assert.Contains(t, html, "echarts", kind)
	}
}

func TestChartRendererRejectsEmptyAndUnknownSpecs(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))
	_, err := renderer.Render(ViewerContext{}, ChartSpec{Kind: ChartBar, Title: "Empty"})
	assert.Error(t, err)

	_, err = renderer.Render(ViewerContext{}, ChartSpec{Kind: "radar", Series: []ChartSeries{{Name: "x"}}})
	assert.Error(t, err)
}

func TestChartRendererUsesViewerTheme(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(nil))
	spec := ChartSpec{Kind: ChartPie, Title: "Themed", Series: []ChartSeries{{Name: "s", Points: []ChartPoint{{Label: "a", Value: 1}}}}}

	html, err := renderer.Render(ViewerContext{Theme: types.ThemeChalk}, spec)
	require.NoError(t, err)
	assert.Contains(t, html, types.ThemeChalk)

	assert.Equal(t, "", ViewerTheme(ViewerContext{Theme: "neon"}))
	assert.Equal(t, types.ThemeWesteros, renderer.resolveTheme(ViewerContext{Theme: "neon"}))
}

func TestChartRendererCachesBySpec(t *testing.T) {
	cache := NewChartCache(time.Hour, 0)
	renderer := NewChartRenderer(WithChartCache(cache))
	spec := ChartSpec{Kind: ChartBar, Title: "Cached", Series: []ChartSeries{{Name: "s", Points: []ChartPoint{{Value: 1}}}}}

	_, err := renderer.Render(ViewerContext{}, spec)
	require.NoError(t, err)
	_, err = renderer.Render(ViewerContext{}, spec)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestTrendChartPlotsCropsAndTotals(t *testing.T) {
	points := FallbackTrends(3)

	all := TrendChart("Trends", points, nil, "en")
	require.Len(t, all.Series, 4)
	assert.Equal(t, "Maize", all.Series[0].Name)
	assert.Equal(t, []string{"Jan 01", "Jan 02", "Jan 03"}, all.XAxis)

	picked := TrendChart("Trends", points, []string{"total", "coffee"}, "sw")
	require.Len(t, picked.Series, 2)
	assert.Equal(t, "Total Detections", picked.Series[0].Name)
	assert.Equal(t, float64(points[0].Total), picked.Series[0].Points[0].Value)
	assert.Equal(t, "Kahawa", picked.Series[1].Name)
}

func TestInferredAxisLabels(t *testing.T) {
	labels := inferredAxisLabels([]ChartSeries{
		{Points: []ChartPoint{{Label: "a"}}},
		{Points: []ChartPoint{{Label: "x"}, {}}},
	})
	assert.Equal(t, []string{"x", "Item 2"}, labels)
}
