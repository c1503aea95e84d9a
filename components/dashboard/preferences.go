package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-echarts/go-echarts/v2/types"
)

// Storage keys used for display preferences.
const (
	ThemePreferenceKey = "theme_preference"
	LanguageKey        = "language"
)

// Languages lists the supported interface languages.
var Languages = []string{"en", "sw"}

var errUnknownTheme = errors.New("dashboard: unknown chart theme")

// Preferences are the operator's display settings.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// DefaultPreferences is used until the operator saves settings.
func DefaultPreferences() Preferences {
	return Preferences{Theme: types.ThemeWesteros, Language: "en"}
}

// Validate rejects themes and languages the dashboard cannot render.
func (p Preferences) Validate() error {
	errs := ValidationErrors{}
	if !slices.Contains(ChartThemes, p.Theme) {
		errs["theme"] = fmt.Sprintf("%s: %q", errUnknownTheme.Error(), p.Theme)
	}
	if !slices.Contains(Languages, p.Language) {
		errs["language"] = fmt.Sprintf("unsupported language %q", p.Language)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PreferenceStore loads and saves display preferences.
type PreferenceStore interface {
	LoadPreferences(ctx context.Context) (Preferences, error)
	SavePreferences(ctx context.Context, prefs Preferences) error
}

// KeyValueStore is the durable storage the preference store writes through.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, entries map[string]string) error
}

// StoragePreferenceStore persists preferences under the theme_preference and language keys.
type StoragePreferenceStore struct {
	kv KeyValueStore
}

// NewStoragePreferenceStore wraps a key/value store.
func NewStoragePreferenceStore(kv KeyValueStore) *StoragePreferenceStore {
	return &StoragePreferenceStore{kv: kv}
}

// LoadPreferences returns stored values, defaulting missing keys.
func (s *StoragePreferenceStore) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()
	if theme, ok, err := s.kv.Get(ctx, ThemePreferenceKey); err != nil {
		return prefs, fmt.Errorf("dashboard: load theme preference: %w", err)
	} else if ok && theme != "" {
		prefs.Theme = theme
	}
	if lang, ok, err := s.kv.Get(ctx, LanguageKey); err != nil {
		return prefs, fmt.Errorf("dashboard: load language preference: %w", err)
	} else if ok && lang != "" {
		prefs.Language = lang
	}
	return prefs, nil
}

// SavePreferences writes both keys in one store call.
func (s *StoragePreferenceStore) SavePreferences(ctx context.Context, prefs Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	return s.kv.Put(ctx, map[string]string{
		ThemePreferenceKey: prefs.Theme,
		LanguageKey:        prefs.Language,
	})
}

// InMemoryPreferenceStore keeps preferences for the life of the process.
type InMemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs Preferences
}

// NewInMemoryPreferenceStore starts from DefaultPreferences.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{prefs: DefaultPreferences()}
}

func (s *InMemoryPreferenceStore) LoadPreferences(context.Context) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs, nil
}

func (s *InMemoryPreferenceStore) SavePreferences(_ context.Context, prefs Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()
	return nil
}

// ApplyPreferences copies display preferences onto a viewer.
func ApplyPreferences(viewer ViewerContext, prefs Preferences) ViewerContext {
	viewer.Theme = prefs.Theme
	viewer.Locale = prefs.Language
	return viewer
}

func settingsData(_ context.Context, meta WidgetContext) (WidgetData, error) {
	themes := make([]map[string]any, 0, len(ChartThemes))
	for _, theme := range ChartThemes {
		themes = append(themes, map[string]any{"value": theme, "selected": theme == meta.Viewer.Theme})
	}
	langs := make([]map[string]any, 0, len(Languages))
	labels := map[string]string{"en": "English", "sw": "Kiswahili"}
	for _, lang := range Languages {
		langs = append(langs, map[string]any{"value": lang, "label": labels[lang], "selected": lang == meta.Viewer.Locale})
	}
	data := WidgetData{
		"title":     "Settings",
		"themes":    themes,
		"languages": langs,
		"saved":     meta.Param("saved", "") != "",
	}
	if errs, ok := meta.Extras["form_errors"].(ValidationErrors); ok {
		data["errors"] = map[string]string(errs)
	}
	return data, nil
}
