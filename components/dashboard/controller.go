package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// AppName is shown in the header and page titles.
	AppName = "Mkulima AI Dashboard"
	// AppVersion is shown in the sidebar footer.
	AppVersion = "1.0.0"
)

var errMissingRenderer = errors.New("dashboard: renderer not configured")

// PageResolver resolves a page for a viewer.
type PageResolver interface {
	RenderPage(ctx context.Context, viewer ViewerContext, req PageRequest) (PageView, error)
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Service         PageResolver
	Renderer        Renderer
	LayoutTemplate  string
	PageTemplate    string
	LoginTemplate   string
	LoadingTemplate string
}

// Controller turns resolved pages into HTML or JSON payloads.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.LayoutTemplate == "" {
		opts.LayoutTemplate = "layout"
	}
	if opts.PageTemplate == "" {
		opts.PageTemplate = "page"
	}
	if opts.LoginTemplate == "" {
		opts.LoginTemplate = "login"
	}
	if opts.LoadingTemplate == "" {
		opts.LoadingTemplate = "loading"
	}
	return &Controller{opts: opts}
}

// PagePayload resolves a page and returns its JSON representation.
func (c *Controller) PagePayload(ctx context.Context, viewer ViewerContext, req PageRequest) (map[string]any, error) {
	view, err := c.opts.Service.RenderPage(ctx, viewer, req)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"page":       view.Page,
		"widgets":    widgetPayloads(view.Widgets),
		"navigation": view.Navigation,
		"viewer":     viewerPayload(viewer),
	}, nil
}

// RenderPage writes the full HTML page, shell included.
func (c *Controller) RenderPage(ctx context.Context, viewer ViewerContext, req PageRequest, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	view, err := c.opts.Service.RenderPage(ctx, viewer, req)
	if err != nil {
		return err
	}
	widgets := widgetPayloads(view.Widgets)
	for _, widget := range widgets {
		template, _ := widget["template"].(string)
		if template == "" || widget["data"] == nil {
			continue
		}
		html, err := c.opts.Renderer.Render(template, map[string]any{
			"widget": widget,
			"data":   widget["data"],
			"viewer": viewerPayload(viewer),
		})
		if err != nil {
			return fmt.Errorf("dashboard: render widget %s: %w", widget["definition"], err)
		}
		widget["html"] = html
	}
	content, err := c.opts.Renderer.Render(c.opts.PageTemplate, map[string]any{
		"page":    view.Page,
		"widgets": widgets,
	})
	if err != nil {
		return fmt.Errorf("dashboard: render page %s: %w", view.Page.Name, err)
	}
	_, err = c.opts.Renderer.Render(c.opts.LayoutTemplate, map[string]any{
		"app_name":    AppName,
		"app_version": AppVersion,
		"title":       view.Page.Title,
		"description": view.Page.Description,
		"navigation":  navPayload(view.Navigation),
		"viewer":      viewerPayload(viewer),
		"content":     content,
	}, out)
	return err
}

// LoginView is the data shown on the login form.
type LoginView struct {
	Email string
	Error string
}

// RenderLogin writes the login page.
func (c *Controller) RenderLogin(out io.Writer, view LoginView) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	_, err := c.opts.Renderer.Render(c.opts.LoginTemplate, map[string]any{
		"app_name": AppName,
		"email":    view.Email,
		"error":    view.Error,
	}, out)
	return err
}

// RenderLoading writes the placeholder shown while the session is restored.
func (c *Controller) RenderLoading(out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	_, err := c.opts.Renderer.Render(c.opts.LoadingTemplate, map[string]any{"app_name": AppName}, out)
	return err
}

func widgetPayloads(widgets []WidgetInstance) []map[string]any {
	out := make([]map[string]any, 0, len(widgets))
	for _, w := range widgets {
		payload := map[string]any{
			"id":         w.ID,
			"definition": w.DefinitionID,
			"config":     w.Configuration,
		}
		for key, value := range w.Metadata {
			payload[key] = value
		}
		if data, ok := payload["data"].(WidgetData); ok {
			payload["data"] = map[string]any(data)
		}
		out = append(out, payload)
	}
	return out
}

func navPayload(items []NavItem) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = map[string]any{
			"label":  item.Label,
			"route":  item.Route,
			"icon":   item.Icon,
			"active": item.Active,
		}
	}
	return out
}

func viewerPayload(viewer ViewerContext) map[string]any {
	return map[string]any{
		"id":     viewer.UserID,
		"name":   viewer.Name,
		"roles":  strings.Join(viewer.Roles, ", "),
		"locale": viewer.Locale,
		"theme":  viewer.Theme,
	}
}
