package dashboard

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// DiseaseFormCode identifies the disease form schema in the validator cache.
const DiseaseFormCode = "mkulima.form.disease"

// DiseaseFormDefinition carries the JSON schema disease submissions must satisfy.
func DiseaseFormDefinition() WidgetDefinition {
	plants := make([]string, 0, len(plantCatalog))
	for _, p := range plantCatalog {
		plants = append(plants, string(p.Type))
	}
	severities := make([]string, 0, len(severityCatalog))
	for _, s := range severityCatalog {
		severities = append(severities, string(s.Level))
	}
	nonEmpty := map[string]any{"type": "string", "minLength": 1}
	return WidgetDefinition{
		Code: DiseaseFormCode,
		Name: "Add New Disease",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"name", "plantType", "severity", "treatments"},
			"properties": map[string]any{
				"name":           nonEmpty,
				"scientificName": map[string]any{"type": "string"},
				"plantType":      map[string]any{"type": "string", "enum": plants},
				"severity":       map[string]any{"type": "string", "enum": severities},
				"treatments":     map[string]any{"type": "array", "minItems": 1, "items": nonEmpty},
				"preventions":    map[string]any{"type": "array", "items": nonEmpty},
			},
		},
	}
}

// ParseDiseaseForm reads a submitted disease form. Treatments and preventions
// accept repeated fields or one entry per line.
func ParseDiseaseForm(values url.Values) Disease {
	severity := Severity(strings.TrimSpace(values.Get("severity")))
	if severity == "" {
		severity = SeverityMedium
	}
	return Disease{
		Name:           strings.TrimSpace(values.Get("name")),
		ScientificName: strings.TrimSpace(values.Get("scientificName")),
		PlantType:      PlantType(strings.TrimSpace(values.Get("plantType"))),
		Severity:       severity,
		Treatments:     listField(values["treatments"]),
		Preventions:    listField(values["preventions"]),
	}
}

func listField(raw []string) []string {
	out := []string{}
	for _, value := range raw {
		for _, line := range strings.Split(value, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// ValidateDisease checks required fields, then the schema. It returns
// ValidationErrors or nil.
func ValidateDisease(validator ConfigValidator, d Disease) error {
	errs := ValidationErrors{}
	if d.Name == "" {
		errs["name"] = "Disease name is required"
	}
	if d.PlantType == "" {
		errs["plantType"] = "Plant type is required"
	}
	if len(d.Treatments) == 0 {
		errs["treatments"] = "At least one treatment is required"
	}
	if len(errs) > 0 {
		return errs
	}
	if validator == nil {
		validator = NewJSONSchemaValidator()
	}
	payload, err := diseasePayload(d)
	if err != nil {
		return err
	}
	if err := validator.Validate(DiseaseFormDefinition(), payload); err != nil {
		return FieldErrors(err)
	}
	return nil
}

func diseasePayload(d Disease) (map[string]any, error) {
	if d.Preventions == nil {
		d.Preventions = []string{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode disease: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("dashboard: decode disease: %w", err)
	}
	return payload, nil
}
