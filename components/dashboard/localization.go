package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TranslationService translates UI keys for a locale.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// ErrTranslationMissing is returned when no catalogue entry matches.
var ErrTranslationMissing = errors.New("dashboard: translation missing")

// Catalog maps locale to message key to text. Text may hold {name}
// placeholders filled from the Translate args.
type Catalog map[string]map[string]string

// CatalogTranslator serves translations from an in-memory Catalog. Region
// variants fall back to their base language.
type CatalogTranslator struct {
	catalog Catalog
}

// NewCatalogTranslator builds a translator over catalog. Locale keys are
// matched case-insensitively.
func NewCatalogTranslator(catalog Catalog) *CatalogTranslator {
	normalized := make(Catalog, len(catalog))
	for locale, messages := range catalog {
		normalized[strings.ToLower(locale)] = messages
	}
	return &CatalogTranslator{catalog: normalized}
}

// DefaultCatalogTranslator carries the Swahili sidebar labels and widget
// titles. English uses the manifest and definition text as written.
func DefaultCatalogTranslator() *CatalogTranslator {
	return NewCatalogTranslator(Catalog{"sw": swahiliMessages})
}

func (t *CatalogTranslator) Translate(_ context.Context, key, locale string, args map[string]any) (string, error) {
	for _, candidate := range localeCandidates(locale) {
		text, ok := t.catalog[candidate][key]
		if !ok || text == "" {
			continue
		}
		if len(args) == 0 {
			return text, nil
		}
		pairs := make([]string, 0, len(args)*2)
		for name, value := range args {
			pairs = append(pairs, "{"+name+"}", fmt.Sprint(value))
		}
		return strings.NewReplacer(pairs...).Replace(text), nil
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrTranslationMissing, key, locale)
}

func widgetTitleKey(code string) string {
	return "dashboard.widget." + code + ".title"
}

var swahiliMessages = map[string]string{
	"dashboard.nav.dashboard": "Dashibodi",
	"dashboard.nav.users":     "Watumiaji",
	"dashboard.nav.analytics": "Uchambuzi",
	"dashboard.nav.diseases":  "Magonjwa",
	"dashboard.nav.regional":  "Takwimu za Mikoa",
	"dashboard.nav.settings":  "Mipangilio",

	widgetTitleKey(WidgetStatsCards):      "Takwimu",
	widgetTitleKey(WidgetAnalyticsChart):  "Uchambuzi wa Magonjwa",
	widgetTitleKey(WidgetDiseaseMap):      "Magonjwa kwa Mkoa",
	widgetTitleKey(WidgetAnalyticsReport): "Ripoti ya Uchambuzi",
	widgetTitleKey(WidgetUserGrowth):      "Ukuaji wa Watumiaji",
	widgetTitleKey(WidgetRecentActivity):  "Shughuli za Hivi Karibuni",
	widgetTitleKey(WidgetUserManagement):  "Usimamizi wa Watumiaji",
	widgetTitleKey(WidgetDiseaseCatalog):  "Usimamizi wa Magonjwa",
	widgetTitleKey(WidgetSettings):        "Mipangilio",
}

// ResolveLocalizedValue selects the best translation for the locale and falls
// back to the supplied value. Keys match case-insensitively, and region
// variants (`sw-ke`) fall back to their base language (`sw`).
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

// NameForLocale returns the display name for the locale.
func (def WidgetDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

// DescriptionForLocale returns the localized description if available.
func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func localeCandidates(locale string) []string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, nil); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
