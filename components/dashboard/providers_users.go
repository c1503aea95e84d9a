package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"
)

// FarmerDirectory lists registered platform users.
type FarmerDirectory interface {
	ListFarmers(ctx context.Context) ([]FarmerRecord, error)
}

// StaticFarmerDirectory serves a fixed user list.
type StaticFarmerDirectory struct {
	farmers []FarmerRecord
}

// NewStaticFarmerDirectory copies farmers into a directory.
func NewStaticFarmerDirectory(farmers []FarmerRecord) *StaticFarmerDirectory {
	return &StaticFarmerDirectory{farmers: append([]FarmerRecord(nil), farmers...)}
}

// ListFarmers returns a copy of the directory contents.
func (d *StaticFarmerDirectory) ListFarmers(context.Context) ([]FarmerRecord, error) {
	return append([]FarmerRecord(nil), d.farmers...), nil
}

// UserSummary aggregates the visible rows of the user table.
type UserSummary struct {
	Count             int
	TotalScans        int
	MeanSuccessRate   float64
	MedianSuccessRate float64
}

// SummarizeFarmers computes table aggregates. An empty list yields zeros.
func SummarizeFarmers(farmers []FarmerRecord) UserSummary {
	summary := UserSummary{Count: len(farmers)}
	if len(farmers) == 0 {
		return summary
	}
	rates := make(stats.Float64Data, len(farmers))
	for i, f := range farmers {
		summary.TotalScans += f.TotalScans
		rates[i] = float64(f.SuccessRate)
	}
	if mean, err := rates.Mean(); err == nil {
		summary.MeanSuccessRate, _ = stats.Round(mean, 1)
	}
	if median, err := rates.Median(); err == nil {
		summary.MedianSuccessRate = median
	}
	return summary
}

type userManagementProvider struct {
	deps ProviderDeps
}

func (p *userManagementProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	all, err := p.deps.Farmers.ListFarmers(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list users: %w", err)
	}
	filter := UserFilter{Search: meta.Param("q", ""), Region: meta.Param("region", "")}
	matched := filter.Apply(all)
	page := intValue(meta.Param("page", "1"), 1)
	size := intValue(meta.Instance.Configuration["page_size"], DefaultPageSize)
	visible := Paginate(matched, page, size)

	rows := make([]map[string]any, 0, len(visible))
	for _, f := range visible {
		rows = append(rows, farmerRow(f))
	}
	summary := SummarizeFarmers(matched)
	data := WidgetData{
		"title":   "User Management",
		"users":   rows,
		"regions": UniqueRegions(all),
		"filter":  map[string]any{"q": filter.Search, "region": filter.Region},
		"summary": map[string]any{
			"count":          summary.Count,
			"total_scans":    FormatCount(summary.TotalScans),
			"mean_success":   fmt.Sprintf("%.1f%%", summary.MeanSuccessRate),
			"median_success": fmt.Sprintf("%.0f%%", summary.MedianSuccessRate),
		},
		"page":      page,
		"has_more":  HasMore(len(matched), page, size),
		"export_qs": exportQuery(map[string]string{"q": filter.Search, "region": filter.Region}),
	}

	selectedID := meta.Param("user", "")
	if selectedID == "" {
		return data, nil
	}
	var selected *FarmerRecord
	for i := range all {
		if all[i].ID == selectedID {
			selected = &all[i]
			break
		}
	}
	if selected == nil {
		data["selected_missing"] = selectedID
		return data, nil
	}
	record := *selected
	state, err := runLoader(ctx, p.deps, meta,
		func() UserStats { return FallbackUserStats(record) },
		func(ctx context.Context, out *UserStats) error {
			s, err := p.deps.Repositories.UserStats.FetchUserStats(ctx, record.ID)
			*out = s
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	data["selected"] = map[string]any{
		"user":                farmerRow(record),
		"total_detections":    FormatCount(state.Data.TotalDetections),
		"high_severity":       state.Data.HighSeverity,
		"medium_severity":     state.Data.MediumSeverity,
		"low_severity":        state.Data.LowSeverity,
		"most_common_disease": state.Data.MostCommonDisease,
		"success_rate":        FormatRate(state.Data.SuccessRate),
		"last_detection":      state.Data.LastDetection,
		"source":              string(state.Source),
		"is_fallback":         state.Source == SourceFallback,
	}
	return data, nil
}

func farmerRow(f FarmerRecord) map[string]any {
	return map[string]any{
		"id":           f.ID,
		"name":         f.Name,
		"email":        f.Email,
		"phone":        f.Phone,
		"region":       f.Region,
		"farm_size":    strconv.FormatFloat(f.FarmSize, 'f', 1, 64) + " acres",
		"total_scans":  f.TotalScans,
		"success_rate": fmt.Sprintf("%d%%", f.SuccessRate),
		"badge":        string(SuccessBadge(f.SuccessRate)),
		"joined":       f.JoinedDate.Format("Jan 2, 2006"),
	}
}

func clampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return min(size, MaxPageSize)
}
