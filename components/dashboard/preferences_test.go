package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
	puts   int
	err    error
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Put(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	for k, v := range entries {
		m.values[k] = v
	}
	m.puts++
	return nil
}

func TestStoragePreferenceStoreDefaultsAndPersists(t *testing.T) {
	kv := &memoryKV{}
	store := NewStoragePreferenceStore(kv)
	ctx := context.Background()

	prefs, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)

	require.NoError(t, store.SavePreferences(ctx, Preferences{Theme: types.ThemeVintage, Language: "sw"}))
	assert.Equal(t, 1, kv.puts, "theme and language are written together")
	assert.Equal(t, types.ThemeVintage, kv.values[ThemePreferenceKey])
	assert.Equal(t, "sw", kv.values[LanguageKey])

	prefs, err = store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, Preferences{Theme: types.ThemeVintage, Language: "sw"}, prefs)
}

func TestSavePreferencesRejectsUnknownValues(t *testing.T) {
	kv := &memoryKV{}
	err := NewStoragePreferenceStore(kv).SavePreferences(context.Background(), Preferences{Theme: "neon", Language: "fr"})

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "theme")
	assert.Contains(t, errs, "language")
	assert.Equal(t, 0, kv.puts)
}

func TestStoragePreferenceStoreSurfacesStorageErrors(t *testing.T) {
	kv := &memoryKV{err: errors.New("disk full")}
	_, err := NewStoragePreferenceStore(kv).LoadPreferences(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

func TestInMemoryPreferenceStore(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	require.NoError(t, store.SavePreferences(ctx, Preferences{Theme: types.ThemeWalden, Language: "en"}))
	prefs, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeWalden, prefs.Theme)

	viewer := ApplyPreferences(ViewerContext{UserID: "1"}, prefs)
	assert.Equal(t, types.ThemeWalden, viewer.Theme)
	assert.Equal(t, "en", viewer.Locale)
}

func TestSettingsDataMarksSelection(t *testing.T) {
	data, err := settingsData(context.Background(), WidgetContext{
		Viewer: ViewerContext{Theme: types.ThemeChalk, Locale: "sw"},
		Params: map[string]string{"saved": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, true, data["saved"])
	for _, lang := range data["languages"].([]map[string]any) {
		assert.Equal(t, lang["value"] == "sw", lang["selected"])
	}
}
