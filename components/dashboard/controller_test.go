package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPageResolver struct {
	view PageView
	err  error
}

func (s *stubPageResolver) RenderPage(context.Context, ViewerContext, PageRequest) (PageView, error) {
	return s.view, s.err
}

type stubRenderer struct {
	calls    []string
	payloads map[string]map[string]any
	failOn   string
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	if r.payloads == nil {
		r.payloads = map[string]map[string]any{}
	}
	if payload, ok := data.(map[string]any); ok {
		r.payloads[name] = payload
	}
	if name == r.failOn {
		return "", errors.New("template exploded")
	}
	html := fmt.Sprintf("<%s>", name)
	if len(out) > 0 && out[0] != nil {
		_, _ = out[0].Write([]byte(html))
	}
	return html, nil
}

func samplePageView() PageView {
	return PageView{
		Page: PageDefinition{Name: "dashboard", Route: "/", Title: "Dashboard Overview"},
		Widgets: []WidgetInstance{
			{ID: "dashboard-0", DefinitionID: WidgetStatsCards, Metadata: map[string]any{
				"template": "widgets/stats_cards",
				"title":    "Statistics Cards",
				"data":     WidgetData{"cards": []map[string]any{}},
			}},
			{ID: "dashboard-1", DefinitionID: WidgetDiseaseMap, Metadata: map[string]any{
				"template": "widgets/disease_map",
				"error":    "This widget could not be rendered.",
			}},
		},
		Navigation: []NavItem{{Label: "Dashboard", Route: "/", Active: true}},
	}
}

func TestControllerRenderPageComposesWidgetsPageAndLayout(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  &stubPageResolver{view: samplePageView()},
		Renderer: renderer,
	})

	var out bytes.Buffer
	err := controller.RenderPage(context.Background(), adminViewer, PageRequest{Route: "/"}, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"widgets/stats_cards", "page", "layout"}, renderer.calls)
	assert.Equal(t, "<layout>", out.String())

	widgets := renderer.payloads["page"]["widgets"].([]map[string]any)
	assert.Equal(t, "<widgets/stats_cards>", widgets[0]["html"])
	assert.Nil(t, widgets[1]["html"])

	layout := renderer.payloads["layout"]
	assert.Equal(t, "<page>", layout["content"])
	assert.Equal(t, "Dashboard Overview", layout["title"])
	assert.Equal(t, AppName, layout["app_name"])
	nav := layout["navigation"].([]map[string]any)
	assert.Equal(t, true, nav[0]["active"])
}

func TestControllerRenderPagePropagatesErrors(t *testing.T) {
	controller := NewController(ControllerOptions{
		Service:  &stubPageResolver{err: ErrPageNotFound},
		Renderer: &stubRenderer{},
	})
	err := controller.RenderPage(context.Background(), adminViewer, PageRequest{Route: "/nope"}, io.Discard)
	assert.ErrorIs(t, err, ErrPageNotFound)

	controller = NewController(ControllerOptions{
		Service:  &stubPageResolver{view: samplePageView()},
		Renderer: &stubRenderer{failOn: "widgets/stats_cards"},
	})
	err = controller.RenderPage(context.Background(), adminViewer, PageRequest{Route: "/"}, io.Discard)
	assert.ErrorContains(t, err, WidgetStatsCards)

	controller = NewController(ControllerOptions{Service: &stubPageResolver{}})
	assert.ErrorIs(t, controller.RenderLoading(io.Discard), errMissingRenderer)
}

func TestControllerPagePayload(t *testing.T) {
	controller := NewController(ControllerOptions{Service: &stubPageResolver{view: samplePageView()}})

	payload, err := controller.PagePayload(context.Background(), adminViewer, PageRequest{Route: "/"})
	require.NoError(t, err)
	widgets := payload["widgets"].([]map[string]any)
	require.Len(t, widgets, 2)
	assert.Equal(t, WidgetStatsCards, widgets[0]["definition"])
	assert.IsType(t, map[string]any{}, widgets[0]["data"])
	assert.Equal(t, "Administrator", payload["viewer"].(map[string]any)["roles"])
}

func TestControllerRenderLogin(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Renderer: renderer})

	var out strings.Builder
	require.NoError(t, controller.RenderLogin(&out, LoginView{Email: "admin@mkulima.ai", Error: "Invalid credentials"}))
	assert.Equal(t, "<login>", out.String())
	assert.Equal(t, "Invalid credentials", renderer.payloads["login"]["error"])
}

func TestEmbeddedTemplatesRender(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	svc, err := NewService(Options{Deps: ProviderDeps{Charts: NewChartRenderer(WithChartCache(nil))}})
	require.NoError(t, err)
	controller := NewController(ControllerOptions{Service: svc, Renderer: renderer})

	for _, page := range svc.Manifest().Pages {
		var out bytes.Buffer
		err := controller.RenderPage(context.Background(), adminViewer, PageRequest{Route: page.Route}, &out)
		require.NoError(t, err, page.Route)
		assert.Contains(t, out.String(), page.Title, page.Route)
		assert.Contains(t, out.String(), AppName, page.Route)
	}

	var login bytes.Buffer
	require.NoError(t, controller.RenderLogin(&login, LoginView{Error: "Invalid credentials"}))
	assert.Contains(t, login.String(), "Invalid credentials")
}
