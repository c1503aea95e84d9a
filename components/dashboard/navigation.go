package dashboard

import "context"

// NavItem is one sidebar entry.
type NavItem struct {
	Page   string `json:"page"`
	Label  string `json:"label"`
	Route  string `json:"route"`
	Icon   string `json:"icon,omitempty"`
	Active bool   `json:"active"`
}

// BuildNavigation lists manifest pages in order, marking the page at route
// active. Pages without a nav label stay routable but hidden from the sidebar.
func BuildNavigation(doc *PageManifest, route string) []NavItem {
	if doc == nil {
		return nil
	}
	items := make([]NavItem, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		if page.Nav == "" {
			continue
		}
		items = append(items, NavItem{
			Page:   page.Name,
			Label:  page.Nav,
			Route:  page.Route,
			Icon:   page.Icon,
			Active: page.Route == route,
		})
	}
	return items
}

// LocalizeNavigation replaces each label with the translation of
// "dashboard.nav.<page>" for locale when svc has one.
func LocalizeNavigation(ctx context.Context, svc TranslationService, items []NavItem, locale string) []NavItem {
	if svc == nil {
		return items
	}
	out := make([]NavItem, len(items))
	for i, item := range items {
		item.Label = translateOrFallback(ctx, svc, "dashboard.nav."+item.Page, locale, item.Label)
		out[i] = item
	}
	return out
}
