package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

const trendDateLayout = "2006-01-02"

var (
	errMissingOverview = errors.New("response has no overview")
	errMissingStats    = errors.New("response has no stats")
)

// flexString accepts JSON strings and numbers, so ids like 1 and "1" agree.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}

type loginRequest struct {
	Email string `json:"email"`
}

type wireUser struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  *wireUser `json:"user"`
}

func (r loginResponse) toResult(email string) LoginResult {
	user := auth.User{Email: email}
	if r.User != nil {
		user = auth.User{
			ID:          string(r.User.ID),
			Name:        r.User.Name,
			Email:       r.User.Email,
			Role:        r.User.Role,
			Permissions: append([]string(nil), r.User.Permissions...),
		}
	}
	if user.Email == "" {
		user.Email = email
	}
	if user.ID == "" {
		user.ID = user.Email
	}
	if user.Name == "" {
		user.Name = user.Email
	}
	return LoginResult{Token: r.Token, User: user}
}

type overviewResponse struct {
	Overview *dashboard.Overview `json:"overview"`
}

func (r overviewResponse) toOverview() (dashboard.Overview, error) {
	if r.Overview == nil {
		return dashboard.Overview{}, errMissingOverview
	}
	out := *r.Overview
	if out.RegionalDistribution == nil {
		out.RegionalDistribution = map[string]int{}
	}
	return out, nil
}

type trendsResponse struct {
	Trends []map[string]json.RawMessage `json:"trends"`
}

// toPoints maps every "<crop>_diseases" key onto Counts[crop]. Total is the
// explicit total_detections when present, otherwise the sum of the crops.
func (r trendsResponse) toPoints() ([]dashboard.TrendPoint, error) {
	points := make([]dashboard.TrendPoint, 0, len(r.Trends))
	for i, raw := range r.Trends {
		point := dashboard.TrendPoint{Counts: map[string]int{}}
		var date string
		if err := json.Unmarshal(raw["date"], &date); err != nil {
			return nil, fmt.Errorf("trend %d: date: %w", i, err)
		}
		parsed, err := time.Parse(trendDateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("trend %d: %w", i, err)
		}
		point.Date = parsed

		explicitTotal := -1
		sum := 0
		for key, value := range raw {
			switch {
			case key == "total_detections":
				n, err := wireInt(value)
				if err != nil {
					return nil, fmt.Errorf("trend %d: %s: %w", i, key, err)
				}
				explicitTotal = n
			case strings.HasSuffix(key, "_diseases"):
				n, err := wireInt(value)
				if err != nil {
					return nil, fmt.Errorf("trend %d: %s: %w", i, key, err)
				}
				point.Counts[strings.TrimSuffix(key, "_diseases")] = n
				sum += n
			}
		}
		point.Total = sum
		if explicitTotal >= 0 {
			point.Total = explicitTotal
		}
		points = append(points, point)
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

func wireInt(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

type wireRegion struct {
	TotalDetections *int            `json:"total_detections"`
	Cases           *int            `json:"cases"`
	TopDiseases     json.RawMessage `json:"top_diseases"`
	TopDisease      string          `json:"topDisease"`
	SuccessRate     *float64        `json:"success_rate"`
	ActiveUsers     *int            `json:"active_users"`
}

type regionalResponse struct {
	Insights map[string]wireRegion `json:"regional_insights"`
}

func (r regionalResponse) toInsights() (map[string]dashboard.RegionalInsight, error) {
	out := make(map[string]dashboard.RegionalInsight, len(r.Insights))
	for region, raw := range r.Insights {
		insight := dashboard.RegionalInsight{
			SuccessRate: raw.SuccessRate,
			ActiveUsers: raw.ActiveUsers,
		}
		switch {
		case raw.TotalDetections != nil:
			insight.Cases = *raw.TotalDetections
		case raw.Cases != nil:
			insight.Cases = *raw.Cases
		}
		top, err := topDiseases(raw.TopDiseases)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", region, err)
		}
		if len(top) == 0 && raw.TopDisease != "" {
			top = []dashboard.DiseaseCount{{Disease: raw.TopDisease}}
		}
		insight.TopDiseases = top
		out[region] = insight
	}
	return out, nil
}

// topDiseases accepts either [{disease, count}] or a list of names.
func topDiseases(raw json.RawMessage) ([]dashboard.DiseaseCount, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var counts []dashboard.DiseaseCount
	if err := json.Unmarshal(raw, &counts); err == nil {
		return counts, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("top_diseases: %w", err)
	}
	out := make([]dashboard.DiseaseCount, len(names))
	for i, name := range names {
		out[i] = dashboard.DiseaseCount{Disease: name}
	}
	return out, nil
}

type wireGrowth struct {
	Period          string `json:"period"`
	Month           string `json:"month"`
	NewUsers        *int   `json:"new_users"`
	NewUsersCamel   *int   `json:"newUsers"`
	TotalUsers      *int   `json:"total_users"`
	TotalUsersCamel *int   `json:"totalUsers"`
}

type growthResponse struct {
	Growth     []wireGrowth `json:"growth"`
	UserGrowth []wireGrowth `json:"user_growth"`
}

func (r growthResponse) toPoints() []dashboard.GrowthPoint {
	rows := r.Growth
	if len(rows) == 0 {
		rows = r.UserGrowth
	}
	out := make([]dashboard.GrowthPoint, len(rows))
	for i, row := range rows {
		period := row.Period
		if period == "" {
			period = row.Month
		}
		out[i] = dashboard.GrowthPoint{
			Period:     period,
			NewUsers:   firstInt(row.NewUsers, row.NewUsersCamel),
			TotalUsers: firstInt(row.TotalUsers, row.TotalUsersCamel),
		}
	}
	return out
}

func firstInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

type wireStats struct {
	TotalDetections   int     `json:"total_detections"`
	HighSeverity      int     `json:"high_severity_count"`
	MediumSeverity    int     `json:"medium_severity_count"`
	LowSeverity       int     `json:"low_severity_count"`
	MostCommonDisease string  `json:"most_common_disease"`
	SuccessRate       float64 `json:"success_rate"`
	LastDetection     *string `json:"last_detection"`
}

type statsResponse struct {
	Stats *wireStats `json:"stats"`
}

func (r statsResponse) toStats() (dashboard.UserStats, error) {
	if r.Stats == nil {
		return dashboard.UserStats{}, errMissingStats
	}
	s := r.Stats
	out := dashboard.UserStats{
		TotalDetections:   s.TotalDetections,
		HighSeverity:      s.HighSeverity,
		MediumSeverity:    s.MediumSeverity,
		LowSeverity:       s.LowSeverity,
		MostCommonDisease: s.MostCommonDisease,
		SuccessRate:       s.SuccessRate,
	}
	if s.LastDetection != nil {
		out.LastDetection = *s.LastDetection
	}
	return out, nil
}

type diseaseResponse struct {
	Disease *dashboard.Disease `json:"disease"`
}
