package dashboard

import "time"

var fallbackTrendStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FallbackOverview is shown by the analytics report when the API is unavailable.
func FallbackOverview() Overview {
	return Overview{
		TotalUsers:      1250,
		TotalDetections: 8920,
		ActiveToday:     187,
		SuccessRate:     0.78,
		CommonDiseases: []DiseaseCount{
			{Disease: "Maize Lethal Necrosis", Count: 2340},
			{Disease: "Coffee Leaf Rust", Count: 1876},
			{Disease: "Tomato Late Blight", Count: 1567},
		},
		RegionalDistribution: map[string]int{
			"Central":     450,
			"Rift Valley": 320,
			"Eastern":     280,
		},
	}
}

// FallbackDiseaseDistribution backs the disease pie of the trends chart.
func FallbackDiseaseDistribution() []DiseaseCount {
	return []DiseaseCount{
		{Disease: "Maize Lethal Necrosis", Count: 2340},
		{Disease: "Coffee Leaf Rust", Count: 1876},
		{Disease: "Tomato Late Blight", Count: 1567},
		{Disease: "Banana Sigatoka", Count: 1234},
		{Disease: "Other", Count: 1903},
	}
}

// FallbackTrends generates a deterministic daily series starting 2024-01-01.
func FallbackTrends(days int) []TrendPoint {
	if days <= 0 {
		days = defaultTrendDays
	}
	points := make([]TrendPoint, days)
	for i := range points {
		day := i + 1
		counts := map[string]int{
			string(PlantMaize):  50 + day%20,
			string(PlantCoffee): 30 + day%15,
			string(PlantTomato): 25 + day%10,
			string(PlantBanana): 20 + day%8,
		}
		total := 0
		for _, v := range counts {
			total += v
		}
		points[i] = TrendPoint{
			Date:   fallbackTrendStart.AddDate(0, 0, i),
			Total:  total,
			Counts: counts,
		}
	}
	return points
}

// FallbackRegions is the region grid shown when regional insights fail.
func FallbackRegions() map[string]RegionalInsight {
	region := func(cases int, disease string) RegionalInsight {
		return RegionalInsight{Cases: cases, TopDiseases: []DiseaseCount{{Disease: disease}}}
	}
	return map[string]RegionalInsight{
		"Nairobi":     region(450, "Tomato Blight"),
		"Central":     region(1250, "Maize Lethal Necrosis"),
		"Rift Valley": region(980, "Maize Rust"),
		"Eastern":     region(760, "Coffee Leaf Rust"),
		"Western":     region(420, "Banana Sigatoka"),
		"Coast":       region(320, "Cassava Mosaic"),
		"Nyanza":      region(580, "Maize Lethal Necrosis"),
	}
}

// FallbackRegionalInsights backs the regional tab of the analytics report.
func FallbackRegionalInsights() map[string]RegionalInsight {
	rate := func(v float64) *float64 { return &v }
	return map[string]RegionalInsight{
		"Central": {
			Cases:       1250,
			SuccessRate: rate(0.82),
			TopDiseases: []DiseaseCount{
				{Disease: "Maize Lethal Necrosis", Count: 450},
				{Disease: "Coffee Leaf Rust", Count: 320},
			},
		},
		"Rift Valley": {
			Cases:       980,
			SuccessRate: rate(0.75),
			TopDiseases: []DiseaseCount{
				{Disease: "Maize Rust", Count: 380},
				{Disease: "Wheat Rust", Count: 290},
			},
		},
		"Eastern": {
			Cases:       760,
			SuccessRate: rate(0.79),
			TopDiseases: []DiseaseCount{
				{Disease: "Coffee Leaf Rust", Count: 280},
				{Disease: "Tomato Blight", Count: 210},
			},
		},
	}
}

// FallbackUserGrowth is a six month growth curve ending at the overview total.
func FallbackUserGrowth() []GrowthPoint {
	newUsers := []int{140, 165, 190, 210, 250, 295}
	points := make([]GrowthPoint, len(newUsers))
	total := 0
	for i, n := range newUsers {
		total += n
		points[i] = GrowthPoint{
			Period:     fallbackTrendStart.AddDate(0, i, 0).Format("2006-01"),
			NewUsers:   n,
			TotalUsers: total,
		}
	}
	return points
}

// StatsSummary feeds the four stat cards.
type StatsSummary struct {
	TotalUsers      int
	TotalDetections int
	SuccessRate     int
	ActiveRegions   int
	Changes         [4]int
}

// FallbackStatsSummary is shown by the stat cards when the overview fails.
func FallbackStatsSummary() StatsSummary {
	return StatsSummary{
		TotalUsers:      1250,
		TotalDetections: 8920,
		SuccessRate:     78,
		ActiveRegions:   4,
		Changes:         [4]int{12, 8, 5, 2},
	}
}

// SummarizeOverview converts a live overview into stat card values.
func SummarizeOverview(o Overview) StatsSummary {
	return StatsSummary{
		TotalUsers:      o.TotalUsers,
		TotalDetections: o.TotalDetections,
		SuccessRate:     percent(o.SuccessRate),
		ActiveRegions:   len(o.RegionalDistribution),
		Changes:         FallbackStatsSummary().Changes,
	}
}

// ActivityFallback lists the demo activity entries.
func ActivityFallback() []ActivityItem {
	return []ActivityItem{
		{User: "John Kamau", Action: "detected Maize Lethal Necrosis", Details: "85% confidence", Ago: 2 * time.Hour},
		{User: "New user", Action: "registered", Details: "Central Region", Ago: 2 * time.Hour},
		{User: "System", Action: "updated the disease database", Details: "Model refresh", Ago: 2 * time.Hour},
		{User: "Mary Wanjiku", Action: "treated Coffee Leaf Rust", Details: "Copper fungicide", Ago: 2 * time.Hour},
	}
}

// SeedDiseases is the catalog shown on the diseases page.
func SeedDiseases() []Disease {
	return []Disease{
		{
			ID:             "1",
			Name:           "Maize Lethal Necrosis",
			ScientificName: "Maize chlorotic mottle virus",
			PlantType:      PlantMaize,
			Severity:       SeverityHigh,
			Cases:          2340,
			SuccessRate:    85,
			Treatments:     []string{"Use certified seeds", "Crop rotation", "Remove infected plants"},
			Preventions:    []string{"Control insect vectors", "Plant resistant varieties"},
		},
		{
			ID:             "2",
			Name:           "Coffee Leaf Rust",
			ScientificName: "Hemileia vastatrix",
			PlantType:      PlantCoffee,
			Severity:       SeverityMedium,
			Cases:          1876,
			SuccessRate:    78,
			Treatments:     []string{"Copper fungicides", "Proper pruning", "Shade management"},
			Preventions:    []string{"Plant resistant varieties"},
		},
		{
			ID:             "3",
			Name:           "Tomato Late Blight",
			ScientificName: "Phytophthora infestans",
			PlantType:      PlantTomato,
			Severity:       SeverityHigh,
			Cases:          1567,
			SuccessRate:    82,
			Treatments:     []string{"Fungicide application", "Improve air circulation", "Avoid overhead watering"},
			Preventions:    []string{"Use disease-free transplants"},
		},
	}
}

// SeedFarmers is the user table content.
func SeedFarmers() []FarmerRecord {
	joined := func(day int) time.Time { return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC) }
	return []FarmerRecord{
		{ID: "1", Name: "John Kamau", Email: "john@example.com", Phone: "+254712345678", Region: "Central", FarmSize: 2.5, TotalScans: 45, SuccessRate: 82, JoinedDate: joined(15)},
		{ID: "2", Name: "Mary Wanjiku", Email: "mary@example.com", Phone: "+254723456789", Region: "Rift Valley", FarmSize: 3.2, TotalScans: 67, SuccessRate: 75, JoinedDate: joined(10)},
		{ID: "3", Name: "James Omondi", Email: "james@example.com", Phone: "+254734567890", Region: "Eastern", FarmSize: 1.8, TotalScans: 23, SuccessRate: 91, JoinedDate: joined(20)},
	}
}

// FallbackUserStats derives a stats panel from the farmer's table row.
func FallbackUserStats(f FarmerRecord) UserStats {
	high := f.TotalScans / 4
	medium := f.TotalScans / 3
	return UserStats{
		TotalDetections:   f.TotalScans,
		HighSeverity:      high,
		MediumSeverity:    medium,
		LowSeverity:       f.TotalScans - high - medium,
		MostCommonDisease: "Maize Lethal Necrosis",
		SuccessRate:       float64(f.SuccessRate) / 100,
	}
}

func percent(rate float64) int {
	return int(rate*100 + 0.5)
}
