package dashboard

import (
	"context"
	"time"
)

// Authorizer determines if a viewer can see a widget instance.
type Authorizer interface {
	CanViewWidget(ctx context.Context, viewer ViewerContext, instance WidgetInstance) bool
}

// ProviderRegistry stores widget definitions and providers discoverable via hooks.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// WidgetDefinition describes a widget and the JSON schema of its configuration.
type WidgetDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
	Template             string            `json:"template,omitempty" yaml:"template,omitempty"`
	Roles                []string          `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// WidgetInstance is a widget placed on a page.
type WidgetInstance struct {
	ID            string         `json:"id"`
	DefinitionID  string         `json:"definition_id"`
	Page          string         `json:"page"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// ViewerContext captures the signed-in operator and their display preferences.
type ViewerContext struct {
	UserID string
	Name   string
	Roles  []string
	Locale string
	Theme  string
}

// PlantType enumerates the crops tracked by the platform.
type PlantType string

const (
	PlantMaize  PlantType = "maize"
	PlantCoffee PlantType = "coffee"
	PlantTomato PlantType = "tomato"
	PlantBanana PlantType = "banana"
	PlantBeans  PlantType = "beans"
)

// Severity grades a disease.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// DiseaseCount pairs a disease with its detection count.
type DiseaseCount struct {
	Disease string `json:"disease"`
	Count   int    `json:"count"`
}

// Overview is the platform-wide metrics snapshot.
type Overview struct {
	TotalUsers           int            `json:"total_users"`
	TotalDetections      int            `json:"total_detections"`
	ActiveToday          int            `json:"active_today"`
	SuccessRate          float64        `json:"success_rate"`
	CommonDiseases       []DiseaseCount `json:"common_diseases"`
	RegionalDistribution map[string]int `json:"regional_distribution"`
}

// TrendPoint holds the detections recorded on one day, keyed by crop.
type TrendPoint struct {
	Date   time.Time      `json:"date"`
	Total  int            `json:"total_detections"`
	Counts map[string]int `json:"counts"`
}

// RegionalInsight summarises detections for one region.
type RegionalInsight struct {
	Cases       int            `json:"cases"`
	TopDiseases []DiseaseCount `json:"top_diseases"`
	SuccessRate *float64       `json:"success_rate,omitempty"`
	ActiveUsers *int           `json:"active_users,omitempty"`
}

// TopDisease returns the leading disease name or an empty string.
func (r RegionalInsight) TopDisease() string {
	if len(r.TopDiseases) == 0 {
		return ""
	}
	return r.TopDiseases[0].Disease
}

// GrowthPoint is one period of user growth.
type GrowthPoint struct {
	Period     string `json:"period"`
	NewUsers   int    `json:"new_users"`
	TotalUsers int    `json:"total_users"`
}

// UserStats aggregates detections for a single farmer.
type UserStats struct {
	TotalDetections   int     `json:"total_detections"`
	HighSeverity      int     `json:"high_severity_count"`
	MediumSeverity    int     `json:"medium_severity_count"`
	LowSeverity       int     `json:"low_severity_count"`
	MostCommonDisease string  `json:"most_common_disease"`
	SuccessRate       float64 `json:"success_rate"`
	LastDetection     string  `json:"last_detection,omitempty"`
}

// Disease is a catalog entry, either seeded or submitted through the disease form.
type Disease struct {
	ID             string    `json:"id,omitempty"`
	Name           string    `json:"name"`
	ScientificName string    `json:"scientificName,omitempty"`
	PlantType      PlantType `json:"plantType"`
	Severity       Severity  `json:"severity"`
	Treatments     []string  `json:"treatments"`
	Preventions    []string  `json:"preventions"`
	Cases          int       `json:"cases,omitempty"`
	SuccessRate    int       `json:"successRate,omitempty"`
}

// FarmerRecord is a registered platform user shown in the user table.
type FarmerRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Region      string    `json:"region"`
	FarmSize    float64   `json:"farmSize"`
	TotalScans  int       `json:"totalScans"`
	SuccessRate int       `json:"successRate"`
	JoinedDate  time.Time `json:"joinedDate"`
}
