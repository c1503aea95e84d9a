package dashboard

// Widget codes registered by default.
const (
	WidgetStatsCards      = "mkulima.widget.stats_cards"
	WidgetAnalyticsChart  = "mkulima.widget.analytics_chart"
	WidgetDiseaseMap      = "mkulima.widget.disease_map"
	WidgetAnalyticsReport = "mkulima.widget.analytics_report"
	WidgetUserGrowth      = "mkulima.widget.user_growth"
	WidgetRecentActivity  = "mkulima.widget.recent_activity"
	WidgetUserManagement  = "mkulima.widget.user_management"
	WidgetDiseaseCatalog  = "mkulima.widget.disease_catalog"
	WidgetSettings        = "mkulima.widget.settings"
)

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:          WidgetStatsCards,
		Name:          "Statistics Cards",
		NameLocalized: map[string]string{"sw": "Takwimu"},
		Description:   "Users, detections, success rate and active regions",
		Category:      "stats",
		Template:      "widgets/stats_cards",
		Schema:        map[string]any{"type": "object"},
	},
	{
		Code:          WidgetAnalyticsChart,
		Name:          "Disease Analytics",
		NameLocalized: map[string]string{"sw": "Uchambuzi wa Magonjwa"},
		Description:   "Detection trends per crop and disease distribution",
		Category:      "charts",
		Template:      "widgets/analytics_chart",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"days":  map[string]any{"type": "integer", "minimum": 1, "maximum": 365},
			},
		},
	},
	{
		Code:          WidgetDiseaseMap,
		Name:          "Disease Distribution by Region",
		NameLocalized: map[string]string{"sw": "Magonjwa kwa Mkoa"},
		Description:   "Region grid colored by case count",
		Category:      "maps",
		Template:      "widgets/disease_map",
		Schema:        map[string]any{"type": "object"},
	},
	{
		Code:        WidgetAnalyticsReport,
		Name:        "Analytics Report",
		Description: "Overview, regional, trends and disease tabs",
		Category:    "charts",
		Template:    "widgets/analytics_report",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"trend_days": map[string]any{"type": "integer", "minimum": 1, "maximum": 365},
			},
		},
	},
	{
		Code:        WidgetUserGrowth,
		Name:        "User Growth",
		Description: "New and total users per month",
		Category:    "charts",
		Template:    "widgets/user_growth",
		Schema:      map[string]any{"type": "object"},
	},
	{
		Code:          WidgetRecentActivity,
		Name:          "Recent Activity",
		NameLocalized: map[string]string{"sw": "Shughuli za Hivi Karibuni"},
		Description:   "Latest detections and registrations",
		Category:      "activity",
		Template:      "widgets/recent_activity",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50},
			},
		},
	},
	{
		Code:        WidgetUserManagement,
		Name:        "User Management",
		Description: "Searchable farmer table with per-user stats",
		Category:    "tables",
		Template:    "widgets/user_management",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page_size": map[string]any{"type": "integer", "minimum": 1, "maximum": MaxPageSize},
			},
		},
		Roles: []string{"Administrator", "Agricultural Officer"},
	},
	{
		Code:        WidgetDiseaseCatalog,
		Name:        "Disease Management",
		Description: "Disease catalog with filters and the add disease form",
		Category:    "tables",
		Template:    "widgets/disease_catalog",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page_size": map[string]any{"type": "integer", "minimum": 1, "maximum": MaxPageSize},
			},
		},
	},
	{
		Code:        WidgetSettings,
		Name:        "Settings",
		Description: "Chart theme and language preferences",
		Category:    "settings",
		Template:    "widgets/settings",
		Schema:      map[string]any{"type": "object"},
	},
}

// DefaultWidgetDefinitions returns a copy of the built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	defs := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(defs, defaultWidgetDefinitions)
	return defs
}
