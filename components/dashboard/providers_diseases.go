package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DiseaseCatalog lists known diseases.
type DiseaseCatalog interface {
	ListDiseases(ctx context.Context) ([]Disease, error)
}

// StaticDiseaseCatalog serves a fixed disease list.
type StaticDiseaseCatalog struct {
	diseases []Disease
}

// NewStaticDiseaseCatalog copies diseases into a catalog.
func NewStaticDiseaseCatalog(diseases []Disease) *StaticDiseaseCatalog {
	return &StaticDiseaseCatalog{diseases: append([]Disease(nil), diseases...)}
}

// ListDiseases returns a copy of the catalog.
func (c *StaticDiseaseCatalog) ListDiseases(context.Context) ([]Disease, error) {
	return append([]Disease(nil), c.diseases...), nil
}

type diseaseCatalogProvider struct {
	deps ProviderDeps
}

func (p *diseaseCatalogProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	all, err := p.deps.Diseases.ListDiseases(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list diseases: %w", err)
	}
	filter := DiseaseFilter{
		Search:    meta.Param("q", ""),
		PlantType: PlantType(meta.Param("plant", "")),
		Severity:  Severity(meta.Param("severity", "")),
	}
	page := intValue(meta.Param("page", "1"), 1)
	size := intValue(meta.Instance.Configuration["page_size"], DefaultPageSize)
	matched := filter.Apply(all)
	visible := Paginate(matched, page, size)

	locale := meta.Viewer.Locale
	cards := make([]map[string]any, 0, len(visible))
	for _, d := range visible {
		cards = append(cards, diseaseCard(d, locale))
	}

	plants := make([]map[string]any, 0, len(plantCatalog))
	for _, info := range plantCatalog {
		plants = append(plants, map[string]any{
			"value":    string(info.Type),
			"label":    PlantLabel(info.Type, locale),
			"selected": info.Type == filter.PlantType,
		})
	}
	severities := make([]map[string]any, 0, len(severityCatalog))
	for _, info := range severityCatalog {
		severities = append(severities, map[string]any{
			"value":    string(info.Level),
			"label":    info.Label,
			"selected": info.Level == filter.Severity,
		})
	}

	data := WidgetData{
		"title":      "Disease Management",
		"diseases":   cards,
		"count":      len(matched),
		"plants":     plants,
		"severities": severities,
		"filter": map[string]any{
			"q":        filter.Search,
			"plant":    string(filter.PlantType),
			"severity": string(filter.Severity),
		},
		"page":      page,
		"has_more":  HasMore(len(matched), page, size),
		"export_qs": exportQuery(map[string]string{"q": filter.Search, "plant": string(filter.PlantType), "severity": string(filter.Severity)}),
		"submitted": meta.Param("submitted", "") != "",
		"form":      diseaseFormData(meta),
	}
	return data, nil
}

func diseaseCard(d Disease, locale string) map[string]any {
	shown := d.Treatments
	if len(shown) > 2 {
		shown = shown[:2]
	}
	card := map[string]any{
		"id":              d.ID,
		"name":            d.Name,
		"scientific_name": d.ScientificName,
		"plant":           PlantLabel(d.PlantType, locale),
		"severity":        string(d.Severity),
		"cases":           FormatCount(d.Cases),
		"success_rate":    fmt.Sprintf("%d%%", d.SuccessRate),
		"treatments":      shown,
		"more_treatments": "",
	}
	if info, ok := SeverityByLevel(d.Severity); ok {
		card["severity_label"] = info.Label
		card["severity_color"] = info.Color
	}
	if extra := len(d.Treatments) - len(shown); extra > 0 {
		card["more_treatments"] = fmt.Sprintf("+%d more treatments", extra)
	}
	return card
}

func diseaseFormData(meta WidgetContext) map[string]any {
	form := map[string]any{"open": false, "errors": map[string]string{}}
	draft, ok := meta.Extras["disease_form"].(Disease)
	if !ok {
		draft = Disease{Severity: SeverityMedium}
	} else {
		form["open"] = true
	}
	form["values"] = map[string]any{
		"name":           draft.Name,
		"scientificName": draft.ScientificName,
		"plantType":      string(draft.PlantType),
		"severity":       string(draft.Severity),
		"treatments":     strings.Join(draft.Treatments, "\n"),
		"preventions":    strings.Join(draft.Preventions, "\n"),
	}
	if errs, ok := meta.Extras["form_errors"].(ValidationErrors); ok {
		form["errors"] = map[string]string(errs)
		form["open"] = true
	}
	return form
}

func exportQuery(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values.Encode()
}
