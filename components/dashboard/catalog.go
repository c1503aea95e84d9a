package dashboard

import "github.com/ettle/strcase"

// SeverityColor is the display band for a case count or success badge.
type SeverityColor string

const (
	ColorGreen  SeverityColor = "green"
	ColorYellow SeverityColor = "yellow"
	ColorOrange SeverityColor = "orange"
	ColorRed    SeverityColor = "red"
)

// CaseSeverity maps a region's case count to its grid color.
func CaseSeverity(cases int) SeverityColor {
	switch {
	case cases > 1000:
		return ColorRed
	case cases > 500:
		return ColorOrange
	case cases > 200:
		return ColorYellow
	default:
		return ColorGreen
	}
}

// SuccessBadge colors a user's success rate percentage.
func SuccessBadge(rate int) SeverityColor {
	switch {
	case rate >= 80:
		return ColorGreen
	case rate >= 60:
		return ColorYellow
	default:
		return ColorRed
	}
}

// PlantInfo describes a supported crop.
type PlantInfo struct {
	Type           PlantType
	Name           string
	ScientificName string
	LocalNames     map[string]string
}

// SeverityInfo describes a severity level.
type SeverityInfo struct {
	Level       Severity
	Label       string
	Color       string
	Description string
}

var plantCatalog = []PlantInfo{
	{Type: PlantMaize, Name: "Maize", ScientificName: "Zea mays", LocalNames: map[string]string{"sw": "Mahindi"}},
	{Type: PlantCoffee, Name: "Coffee", ScientificName: "Coffea arabica", LocalNames: map[string]string{"sw": "Kahawa"}},
	{Type: PlantTomato, Name: "Tomato", ScientificName: "Solanum lycopersicum", LocalNames: map[string]string{"sw": "Nyanya"}},
	{Type: PlantBanana, Name: "Banana", ScientificName: "Musa spp.", LocalNames: map[string]string{"sw": "Ndizi"}},
	{Type: PlantBeans, Name: "Beans", ScientificName: "Phaseolus vulgaris", LocalNames: map[string]string{"sw": "Maharage"}},
}

var severityCatalog = []SeverityInfo{
	{Level: SeverityLow, Label: "Low", Color: "#10B981", Description: "Minor damage, easily treatable"},
	{Level: SeverityMedium, Label: "Medium", Color: "#F59E0B", Description: "Moderate damage, requires attention"},
	{Level: SeverityHigh, Label: "High", Color: "#EF4444", Description: "Severe damage, immediate action needed"},
	{Level: SeverityCritical, Label: "Critical", Color: "#7C2D12", Description: "Critical damage, crop loss likely"},
}

// KenyanRegions lists the regions the platform reports on.
var KenyanRegions = []string{
	"Nairobi", "Central", "Rift Valley", "Eastern", "Western", "Nyanza", "Coast", "North Eastern",
}

// UserRoles lists the operator roles known to the platform.
var UserRoles = []string{"Administrator", "Agricultural Officer", "Farmer", "Viewer"}

const (
	// DefaultPageSize is the table page size when none is requested.
	DefaultPageSize = 50
	// MaxPageSize caps table page sizes.
	MaxPageSize = 100
	// MaxExportRows caps export output.
	MaxExportRows = 10000
)

// Plants returns the supported crops in display order.
func Plants() []PlantInfo {
	return append([]PlantInfo(nil), plantCatalog...)
}

// Severities returns the severity levels from least to most severe.
func Severities() []SeverityInfo {
	return append([]SeverityInfo(nil), severityCatalog...)
}

// PlantByType looks up a crop.
func PlantByType(t PlantType) (PlantInfo, bool) {
	for _, p := range plantCatalog {
		if p.Type == t {
			return p, true
		}
	}
	return PlantInfo{}, false
}

// SeverityByLevel looks up a severity level.
func SeverityByLevel(level Severity) (SeverityInfo, bool) {
	for _, s := range severityCatalog {
		if s.Level == level {
			return s, true
		}
	}
	return SeverityInfo{}, false
}

// PlantLabel renders a crop name for the locale, using the local name when one exists.
func PlantLabel(t PlantType, locale string) string {
	info, ok := PlantByType(t)
	if !ok {
		return strcase.ToPascal(string(t))
	}
	return ResolveLocalizedValue(info.LocalNames, locale, info.Name)
}
