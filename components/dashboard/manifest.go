package dashboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

//go:embed pages.yaml
var defaultPagesManifest []byte

// PageManifest describes the navigable pages and the widgets each one mounts.
type PageManifest struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Pages   []PageDefinition `json:"pages" yaml:"pages"`
	Source  string           `json:"-" yaml:"-"`
}

// PageDefinition is one route of the navigation shell.
type PageDefinition struct {
	Name        string       `json:"name" yaml:"name"`
	Route       string       `json:"route" yaml:"route"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Nav         string       `json:"nav,omitempty" yaml:"nav,omitempty"`
	Icon        string       `json:"icon,omitempty" yaml:"icon,omitempty"`
	Widgets     []PageWidget `json:"widgets" yaml:"widgets"`
}

// PageWidget places a widget definition on a page.
type PageWidget struct {
	Code   string         `json:"code" yaml:"code"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// DefaultPageManifest decodes the embedded page manifest.
func DefaultPageManifest() (*PageManifest, error) {
	doc, err := DecodeManifest(bytes.NewReader(defaultPagesManifest))
	if err != nil {
		return nil, err
	}
	doc.Source = "embedded:pages.yaml"
	return doc, nil
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*PageManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*PageManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc PageManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes the manifest as YAML.
func EncodeManifest(w io.Writer, doc *PageManifest) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate checks routes and names are present and unique.
func (doc *PageManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	names := make(map[string]struct{}, len(doc.Pages))
	routes := make(map[string]struct{}, len(doc.Pages))
	for idx, page := range doc.Pages {
		if page.Name == "" {
			return fmt.Errorf("dashboard: manifest page at index %d is missing name", idx)
		}
		if !strings.HasPrefix(page.Route, "/") {
			return fmt.Errorf("dashboard: manifest page %s route must start with /", page.Name)
		}
		if _, exists := names[page.Name]; exists {
			return fmt.Errorf("dashboard: manifest duplicates page %s", page.Name)
		}
		if _, exists := routes[page.Route]; exists {
			return fmt.Errorf("dashboard: manifest duplicates route %s", page.Route)
		}
		names[page.Name] = struct{}{}
		routes[page.Route] = struct{}{}
		for widx, widget := range page.Widgets {
			if widget.Code == "" {
				return fmt.Errorf("dashboard: page %s widget at index %d is missing code", page.Name, widx)
			}
		}
	}
	return nil
}

// ValidateWidgets checks every widget code is registered and every config
// satisfies its definition schema.
func (doc *PageManifest) ValidateWidgets(reg ProviderRegistry, validator ConfigValidator) error {
	if validator == nil {
		validator = noopConfigValidator{}
	}
	for _, page := range doc.Pages {
		for _, widget := range page.Widgets {
			def, ok := reg.Definition(widget.Code)
			if !ok {
				return fmt.Errorf("dashboard: page %s references unknown widget %s", page.Name, widget.Code)
			}
			if err := validator.Validate(def, widget.Config); err != nil {
				return fmt.Errorf("dashboard: page %s: %w", page.Name, err)
			}
		}
	}
	return nil
}

// Page returns the page registered for route.
func (doc *PageManifest) Page(route string) (PageDefinition, bool) {
	for _, page := range doc.Pages {
		if page.Route == route {
			return page, true
		}
	}
	return PageDefinition{}, false
}

// PageByName returns the page with the given name.
func (doc *PageManifest) PageByName(name string) (PageDefinition, bool) {
	for _, page := range doc.Pages {
		if page.Name == name {
			return page, true
		}
	}
	return PageDefinition{}, false
}
