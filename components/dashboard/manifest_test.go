package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPageManifestListsShellPages(t *testing.T) {
	doc, err := DefaultPageManifest()
	require.NoError(t, err)

	routes := make([]string, len(doc.Pages))
	for i, page := range doc.Pages {
		routes[i] = page.Route
	}
	assert.Equal(t, []string{"/", "/users", "/analytics", "/diseases", "/regional", "/settings"}, routes)
	assert.Equal(t, "embedded:pages.yaml", doc.Source)
	require.NoError(t, doc.ValidateWidgets(NewRegistry(), NewJSONSchemaValidator()))
}

func TestDecodeManifestRejectsDuplicatesAndUnknownFields(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(`
version: "1"
pages:
  - name: home
    route: /
  - name: home
    route: /again
`))
	assert.ErrorContains(t, err, "duplicates page home")

	_, err = DecodeManifest(strings.NewReader(`
version: "1"
pages:
  - name: home
    route: /
    layout: grid
`))
	assert.Error(t, err)

	_, err = DecodeManifest(strings.NewReader(`
pages:
  - name: home
    route: home
`))
	assert.ErrorContains(t, err, "must start with /")

	_, err = DecodeManifest(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")
}

func TestValidateWidgetsChecksCodesAndConfig(t *testing.T) {
	reg := NewRegistry()
	doc := &PageManifest{Version: ManifestVersion, Pages: []PageDefinition{{
		Name:    "custom",
		Route:   "/custom",
		Widgets: []PageWidget{{Code: "acme.widget.unknown"}},
	}}}
	assert.ErrorContains(t, doc.ValidateWidgets(reg, nil), "unknown widget")

	doc.Pages[0].Widgets = []PageWidget{{Code: WidgetAnalyticsChart, Config: map[string]any{"days": 900}}}
	assert.Error(t, doc.ValidateWidgets(reg, NewJSONSchemaValidator()))

	doc.Pages[0].Widgets[0].Config["days"] = 14
	assert.NoError(t, doc.ValidateWidgets(reg, NewJSONSchemaValidator()))
}

func TestManifestRoundTripsThroughDisk(t *testing.T) {
	doc, err := DefaultPageManifest()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, doc))
	path := filepath.Join(t.TempDir(), "pages.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Source)
	assert.Equal(t, len(doc.Pages), len(loaded.Pages))
	page, ok := loaded.PageByName("analytics")
	require.True(t, ok)
	assert.Equal(t, "/analytics", page.Route)
}

func TestBuildNavigationMarksActiveRoute(t *testing.T) {
	doc := &PageManifest{Pages: []PageDefinition{
		{Name: "dashboard", Route: "/", Nav: "Dashboard"},
		{Name: "hidden", Route: "/hidden"},
		{Name: "users", Route: "/users", Nav: "Users"},
	}}
	items := BuildNavigation(doc, "/users")
	require.Len(t, items, 2)
	assert.False(t, items[0].Active)
	assert.True(t, items[1].Active)
	assert.Nil(t, BuildNavigation(nil, "/"))
}

func TestRegistryRequiresTemplates(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.RegisterDefinition(WidgetDefinition{Code: "acme.widget.bare"}))
	assert.Error(t, reg.RegisterProvider("acme.widget.bare", ProviderFunc(nil)))

	def, ok := reg.Definition(WidgetUserManagement)
	require.True(t, ok)
	assert.Equal(t, "widgets/user_management", def.Template)
	assert.Len(t, reg.Definitions(), len(DefaultWidgetDefinitions()))
}
