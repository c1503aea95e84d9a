package dashboard

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiseaseFormSplitsLists(t *testing.T) {
	values := url.Values{
		"name":       {"  Bean Rust "},
		"plantType":  {"beans"},
		"treatments": {"Sulfur dust\n\n Crop rotation ", "Remove debris"},
	}
	d := ParseDiseaseForm(values)

	assert.Equal(t, "Bean Rust", d.Name)
	assert.Equal(t, PlantBeans, d.PlantType)
	assert.Equal(t, SeverityMedium, d.Severity)
	assert.Equal(t, []string{"Sulfur dust", "Crop rotation", "Remove debris"}, d.Treatments)
	assert.Empty(t, d.Preventions)
}

func TestValidateDiseaseRequiresFields(t *testing.T) {
	err := ValidateDisease(nil, Disease{Severity: SeverityMedium})

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "plantType")
	assert.Contains(t, errs, "treatments")
	assert.Contains(t, err.Error(), "name: Disease name is required")
}

func TestValidateDiseaseChecksEnums(t *testing.T) {
	err := ValidateDisease(NewJSONSchemaValidator(), Disease{
		Name:       "Cassava Mosaic",
		PlantType:  "cassava",
		Severity:   "extreme",
		Treatments: []string{"Rogue infected plants"},
	})

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "plantType")
	assert.Contains(t, errs, "severity")
}

func TestValidateDiseaseAcceptsCompleteSubmission(t *testing.T) {
	err := ValidateDisease(NewJSONSchemaValidator(), Disease{
		Name:        "Bean Rust",
		PlantType:   PlantBeans,
		Severity:    SeverityLow,
		Treatments:  []string{"Sulfur dust"},
		Preventions: []string{"Wide spacing"},
	})
	assert.NoError(t, err)
}
