package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	errMissingWidgetCode = errors.New("dashboard: widget code is required")
	errNilProvider       = errors.New("dashboard: provider is nil")
)

// Registry holds widget definitions and the providers that fill them.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]WidgetDefinition
	providers   map[string]Provider
}

// NewRegistry starts from the built-in definitions plus extra. Providers are
// attached later because they need the data sources.
func NewRegistry(extra ...WidgetDefinition) *Registry {
	reg := &Registry{
		definitions: map[string]WidgetDefinition{},
		providers:   map[string]Provider{},
	}
	for _, def := range append(DefaultWidgetDefinitions(), extra...) {
		// Invalid extras are skipped and reported by manifest validation.
		_ = reg.RegisterDefinition(def)
	}
	return reg
}

// RegisterDefinition adds or replaces a definition. A template is required
// because the controller renders every widget.
func (r *Registry) RegisterDefinition(def WidgetDefinition) error {
	if strings.TrimSpace(def.Code) == "" {
		return errMissingWidgetCode
	}
	if def.Template == "" {
		return fmt.Errorf("dashboard: widget %s has no template", def.Code)
	}
	r.mu.Lock()
	r.definitions[def.Code] = def
	r.mu.Unlock()
	return nil
}

// RegisterProvider binds provider to an existing definition.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	switch {
	case code == "":
		return errMissingWidgetCode
	case provider == nil:
		return errNilProvider
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("dashboard: widget %s is not defined", code)
	}
	r.providers[code] = provider
	return nil
}

func (r *Registry) Definition(code string) (WidgetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// Definitions lists every definition by code.
func (r *Registry) Definitions() []WidgetDefinition {
	r.mu.RLock()
	defs := make([]WidgetDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	r.mu.RUnlock()
	slices.SortFunc(defs, func(a, b WidgetDefinition) int { return strings.Compare(a.Code, b.Code) })
	return defs
}
