package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseSeverityBoundaries(t *testing.T) {
	t.Parallel()
	cases := []struct {
		cases int
		want  SeverityColor
	}{
		{0, ColorGreen},
		{200, ColorGreen},
		{201, ColorYellow},
		{500, ColorYellow},
		{501, ColorOrange},
		{1000, ColorOrange},
		{1001, ColorRed},
	}
	for _, tc := range cases {
		if got := CaseSeverity(tc.cases); got != tc.want {
			t.Fatalf("CaseSeverity(%d) = %s, want %s", tc.cases, got, tc.want)
		}
	}
}

func TestSuccessBadge(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ColorGreen, SuccessBadge(80))
	assert.Equal(t, ColorYellow, SuccessBadge(79))
	assert.Equal(t, ColorYellow, SuccessBadge(60))
	assert.Equal(t, ColorRed, SuccessBadge(59))
}

func TestPlantLabelUsesLocalName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Maize", PlantLabel(PlantMaize, "en"))
	assert.Equal(t, "Mahindi", PlantLabel(PlantMaize, "sw"))
	assert.Equal(t, "Kahawa", PlantLabel(PlantCoffee, "sw-KE"))
	assert.Equal(t, "SweetPotato", PlantLabel(PlantType("sweet_potato"), "en"))
}

func TestCatalogLookups(t *testing.T) {
	t.Parallel()
	info, ok := SeverityByLevel(SeverityCritical)
	assert.True(t, ok)
	assert.Equal(t, "Critical", info.Label)

	_, ok = PlantByType("cassava")
	assert.False(t, ok)
	assert.Len(t, Plants(), 5)
	assert.Len(t, Severities(), 4)
}
