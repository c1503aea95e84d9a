package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrPageNotFound is returned for routes absent from the page manifest.
	ErrPageNotFound = errors.New("dashboard: page not found")
	errNilManifest  = errors.New("dashboard: page manifest is nil")
)

const widgetErrorMessage = "This widget could not be rendered."

// Options configures the dashboard Service.
type Options struct {
	Providers       ProviderRegistry
	Manifest        *PageManifest
	ConfigValidator ConfigValidator
	Authorizer      Authorizer
	Translator      TranslationService
	Telemetry       Telemetry
	Logger          *zap.Logger
	Deps            ProviderDeps
}

// Service resolves pages into rendered widget data.
type Service struct {
	opts Options
}

// NewService builds a Service with safe defaults and checks the page manifest
// against the registered widgets.
func NewService(opts Options) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.Authorizer == nil {
		opts.Authorizer = roleAuthorizer{providers: opts.Providers}
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.Manifest == nil {
		doc, err := DefaultPageManifest()
		if err != nil {
			return nil, err
		}
		opts.Manifest = doc
	}
	if opts.Deps.Logger == nil {
		opts.Deps.Logger = opts.Logger
	}
	if opts.Deps.Telemetry == nil {
		opts.Deps.Telemetry = opts.Telemetry
	}
	if err := RegisterDefaultProviders(opts.Providers, opts.Deps); err != nil {
		return nil, err
	}
	if err := opts.Manifest.ValidateWidgets(opts.Providers, opts.ConfigValidator); err != nil {
		return nil, err
	}
	return &Service{opts: opts}, nil
}

// PageRequest selects a page and carries the query and form state of the request.
type PageRequest struct {
	Route  string
	Params map[string]string
	Extras map[string]any
}

// PageView is a page with its widgets' data attached.
type PageView struct {
	Page       PageDefinition   `json:"page"`
	Widgets    []WidgetInstance `json:"widgets"`
	Navigation []NavItem        `json:"navigation"`
}

// Manifest exposes the page manifest backing the navigation shell.
func (s *Service) Manifest() *PageManifest {
	return s.opts.Manifest
}

// Navigation returns the sidebar items with route marked active, labelled
// for locale.
func (s *Service) Navigation(ctx context.Context, route, locale string) []NavItem {
	return LocalizeNavigation(ctx, s.opts.Translator, BuildNavigation(s.opts.Manifest, route), locale)
}

// RenderPage mounts the page as a view, runs every widget provider
// concurrently and unmounts the view once all have settled.
func (s *Service) RenderPage(ctx context.Context, viewer ViewerContext, req PageRequest) (PageView, error) {
	if s.opts.Manifest == nil {
		return PageView{}, errNilManifest
	}
	page, ok := s.opts.Manifest.Page(req.Route)
	if !ok {
		return PageView{}, fmt.Errorf("%w: %s", ErrPageNotFound, req.Route)
	}
	view := MountView(ctx, page.Name)
	defer view.Unmount()

	instances := make([]WidgetInstance, 0, len(page.Widgets))
	for idx, widget := range page.Widgets {
		inst := WidgetInstance{
			ID:            fmt.Sprintf("%s-%d", page.Name, idx),
			DefinitionID:  widget.Code,
			Page:          page.Name,
			Configuration: widget.Config,
		}
		if s.opts.Authorizer.CanViewWidget(ctx, viewer, inst) {
			instances = append(instances, inst)
		}
	}
	instances = s.attachProviderData(view, viewer, req, instances)
	if !view.Mounted() {
		return PageView{}, ctx.Err()
	}

	s.opts.Telemetry.Record(ctx, "dashboard.page.render", map[string]any{
		"page":    page.Name,
		"viewer":  viewer.UserID,
		"widgets": len(instances),
	})
	return PageView{
		Page:       page,
		Widgets:    instances,
		Navigation: s.Navigation(ctx, page.Route, viewer.Locale),
	}, nil
}

func (s *Service) attachProviderData(view *View, viewer ViewerContext, req PageRequest, widgets []WidgetInstance) []WidgetInstance {
	enriched := make([]WidgetInstance, len(widgets))
	copy(enriched, widgets)
	var wg sync.WaitGroup
	for i := range enriched {
		inst := &enriched[i]
		inst.Metadata = map[string]any{}
		def, _ := s.opts.Providers.Definition(inst.DefinitionID)
		inst.Metadata["template"] = def.Template
		inst.Metadata["title"] = translateOrFallback(view.Context(), s.opts.Translator,
			widgetTitleKey(inst.DefinitionID), viewer.Locale, def.NameForLocale(viewer.Locale))
		provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
		if !ok || provider == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.opts.Logger.Error("widget provider panicked",
						zap.String("widget", inst.DefinitionID),
						zap.String("page", inst.Page),
						zap.Any("panic", r),
					)
					s.opts.Telemetry.Record(view.Context(), "dashboard.widget.provider_error", map[string]any{
						"definition_id": inst.DefinitionID,
						"error":         fmt.Sprint(r),
					})
					inst.Metadata["error"] = widgetErrorMessage
				}
			}()
			data, err := provider.Fetch(view.Context(), WidgetContext{
				Instance:   *inst,
				Viewer:     viewer,
				View:       view,
				Params:     req.Params,
				Extras:     req.Extras,
				Translator: s.opts.Translator,
			})
			if err != nil {
				if errors.Is(err, errViewGone) {
					return
				}
				s.opts.Logger.Error("widget provider failed",
					zap.String("widget", inst.DefinitionID),
					zap.String("page", inst.Page),
					zap.Error(err),
				)
				s.opts.Telemetry.Record(view.Context(), "dashboard.widget.provider_error", map[string]any{
					"definition_id": inst.DefinitionID,
					"error":         err.Error(),
				})
				inst.Metadata["error"] = widgetErrorMessage
				return
			}
			inst.Metadata["data"] = data
		}()
	}
	wg.Wait()
	return enriched
}

type roleAuthorizer struct {
	providers ProviderRegistry
}

// CanViewWidget allows widgets without role restrictions, and restricted
// widgets only to viewers holding one of the roles.
func (a roleAuthorizer) CanViewWidget(_ context.Context, viewer ViewerContext, instance WidgetInstance) bool {
	if a.providers == nil {
		return true
	}
	def, ok := a.providers.Definition(instance.DefinitionID)
	if !ok || len(def.Roles) == 0 {
		return true
	}
	for _, role := range viewer.Roles {
		if slices.Contains(def.Roles, role) {
			return true
		}
	}
	return false
}
