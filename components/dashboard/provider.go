package dashboard

import "context"

// Provider fetches data required to render a widget instance.
type Provider interface {
	Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, meta WidgetContext) (WidgetData, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return f(ctx, meta)
}

// WidgetContext contains the metadata needed by providers.
type WidgetContext struct {
	Instance   WidgetInstance
	Viewer     ViewerContext
	View       *View
	Params     map[string]string
	Extras     map[string]any
	Translator TranslationService
}

// Param returns a request parameter or def when unset.
func (m WidgetContext) Param(name, def string) string {
	if v, ok := m.Params[name]; ok && v != "" {
		return v
	}
	return def
}

// WidgetData is an opaque payload passed to templates.
type WidgetData map[string]any

func withSource(data WidgetData, source Source) WidgetData {
	data["source"] = string(source)
	data["is_fallback"] = source == SourceFallback
	return data
}
