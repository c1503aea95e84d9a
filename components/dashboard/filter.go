package dashboard

import (
	"slices"
	"strings"
)

// DiseaseFilter narrows the disease catalog. Empty fields match everything.
type DiseaseFilter struct {
	Search    string
	PlantType PlantType
	Severity  Severity
}

// Match applies the search term to name or scientific name and the
// categorical filters exactly, all ANDed.
func (f DiseaseFilter) Match(d Disease) bool {
	if !containsFold(f.Search, d.Name, d.ScientificName) {
		return false
	}
	if f.PlantType != "" && d.PlantType != f.PlantType {
		return false
	}
	if f.Severity != "" && d.Severity != f.Severity {
		return false
	}
	return true
}

// Apply returns the matching diseases in their original order.
func (f DiseaseFilter) Apply(diseases []Disease) []Disease {
	out := make([]Disease, 0, len(diseases))
	for _, d := range diseases {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// UserFilter narrows the user table.
type UserFilter struct {
	Search string
	Region string
}

// Match applies the search term to name or email and the region exactly.
func (f UserFilter) Match(u FarmerRecord) bool {
	if !containsFold(f.Search, u.Name, u.Email) {
		return false
	}
	if f.Region != "" && u.Region != f.Region {
		return false
	}
	return true
}

// Apply returns the matching users in their original order.
func (f UserFilter) Apply(users []FarmerRecord) []FarmerRecord {
	out := make([]FarmerRecord, 0, len(users))
	for _, u := range users {
		if f.Match(u) {
			out = append(out, u)
		}
	}
	return out
}

// UniqueRegions lists the distinct regions present in users, in first-seen order.
func UniqueRegions(users []FarmerRecord) []string {
	var regions []string
	for _, u := range users {
		if u.Region != "" && !slices.Contains(regions, u.Region) {
			regions = append(regions, u.Region)
		}
	}
	return regions
}

// Paginate returns the 1-based page of items using size (clamped to MaxPageSize).
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	if len(items) == 0 || page-1 > (len(items)-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end]
}

// HasMore reports whether items beyond the given 1-based page remain.
func HasMore(total, page, size int) bool {
	size = clampPageSize(size)
	if page <= 0 {
		page = 1
	}
	return page <= (total-1)/size
}

func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
