package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidatorWidgetConfig(t *testing.T) {
	t.Parallel()
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code: "mkulima.widget.trend_window",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"days"},
			"properties": map[string]any{
				"days": map[string]any{"type": "integer", "minimum": 1, "maximum": 365},
			},
		},
	}
	require.NoError(t, validator.Validate(def, map[string]any{"days": 30}))
	require.Error(t, validator.Validate(def, map[string]any{"days": 0}))
	require.Error(t, validator.Validate(def, nil))
	assert.Len(t, validator.schemas, 1)
}

func TestJSONSchemaValidatorSkipsSchemalessDefinitions(t *testing.T) {
	t.Parallel()
	validator := NewJSONSchemaValidator()
	if err := validator.Validate(WidgetDefinition{Code: "free"}, map[string]any{"anything": true}); err != nil {
		t.Fatalf("expected schemaless definition to accept config, got %v", err)
	}
	assert.Empty(t, validator.schemas)
}

func TestFieldErrorsKeysByTopLevelField(t *testing.T) {
	t.Parallel()
	validator := NewJSONSchemaValidator()
	err := validator.Validate(DiseaseFormDefinition(), map[string]any{
		"name":       "Leaf Blight",
		"plantType":  "cassava",
		"severity":   "medium",
		"treatments": []any{""},
	})
	require.Error(t, err)
	fields := FieldErrors(err)
	assert.Contains(t, fields, "plantType")
	assert.Contains(t, fields, "treatments")
	assert.NotContains(t, fields, "name")
}

func TestFieldErrorsFallsBackToForm(t *testing.T) {
	t.Parallel()
	fields := FieldErrors(errors.New("boom"))
	assert.Equal(t, ValidationErrors{"form": "boom"}, fields)
	assert.Empty(t, FieldErrors(nil))
}
