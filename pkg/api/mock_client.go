package api

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

// Operation names accepted by MockClient.Fail.
const (
	OpLogin            = "login"
	OpOverview         = "overview"
	OpDiseaseTrends    = "disease_trends"
	OpRegionalInsights = "regional_insights"
	OpUserGrowth       = "user_growth"
	OpUserStats        = "user_stats"
	OpSubmitDisease    = "submit_disease"
)

// MockData seeds deterministic API responses for tests or offline demos.
type MockData struct {
	Login     LoginResult
	Overview  dashboard.Overview
	Trends    []dashboard.TrendPoint
	Regional  map[string]dashboard.RegionalInsight
	Growth    []dashboard.GrowthPoint
	UserStats map[string]dashboard.UserStats
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	mu        sync.RWMutex
	data      MockData
	failures  map[string]error
	calls     map[string]int
	submitted []dashboard.Disease
}

// NewMockClient builds a mock client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{
		data:     data,
		failures: map[string]error{},
		calls:    map[string]int{},
	}
}

// Fail makes op return err until cleared with a nil err.
func (c *MockClient) Fail(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, op)
		return
	}
	c.failures[op] = err
}

// Calls reports how often op was invoked.
func (c *MockClient) Calls(op string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls[op]
}

// Submitted returns the diseases received by Submit.
func (c *MockClient) Submitted() []dashboard.Disease {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.submitted)
}

func (c *MockClient) enter(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
	return c.failures[op]
}

func (c *MockClient) Login(_ context.Context, email string) (LoginResult, error) {
	if err := c.enter(OpLogin); err != nil {
		return LoginResult{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.data.Login
	if out.User.Email == "" {
		out.User.Email = email
	}
	out.User.Permissions = slices.Clone(out.User.Permissions)
	return out, nil
}

func (c *MockClient) Overview(context.Context) (dashboard.Overview, error) {
	if err := c.enter(OpOverview); err != nil {
		return dashboard.Overview{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.data.Overview
	out.CommonDiseases = slices.Clone(out.CommonDiseases)
	out.RegionalDistribution = maps.Clone(out.RegionalDistribution)
	return out, nil
}

func (c *MockClient) DiseaseTrends(_ context.Context, days int) ([]dashboard.TrendPoint, error) {
	if err := c.enter(OpDiseaseTrends); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	trends := c.data.Trends
	if days > 0 && days < len(trends) {
		trends = trends[len(trends)-days:]
	}
	out := make([]dashboard.TrendPoint, len(trends))
	for i, p := range trends {
		p.Counts = maps.Clone(p.Counts)
		out[i] = p
	}
	return out, nil
}

func (c *MockClient) RegionalInsights(context.Context) (map[string]dashboard.RegionalInsight, error) {
	if err := c.enter(OpRegionalInsights); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]dashboard.RegionalInsight, len(c.data.Regional))
	for region, insight := range c.data.Regional {
		insight.TopDiseases = slices.Clone(insight.TopDiseases)
		out[region] = insight
	}
	return out, nil
}

func (c *MockClient) UserGrowth(context.Context) ([]dashboard.GrowthPoint, error) {
	if err := c.enter(OpUserGrowth); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.data.Growth), nil
}

func (c *MockClient) Stats(_ context.Context, userID string) (dashboard.UserStats, error) {
	if err := c.enter(OpUserStats); err != nil {
		return dashboard.UserStats{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats, ok := c.data.UserStats[userID]
	if !ok {
		return dashboard.UserStats{}, &RequestError{Kind: KindStatus, Method: "GET", Path: "/users/" + userID + "/stats", Status: 404}
	}
	return stats, nil
}

func (c *MockClient) Submit(_ context.Context, disease dashboard.Disease) (dashboard.Disease, error) {
	if err := c.enter(OpSubmitDisease); err != nil {
		return dashboard.Disease{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitted = append(c.submitted, disease)
	return disease, nil
}
