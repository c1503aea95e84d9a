package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

func TestRepositoryDelegatesToClient(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockClient(MockData{
		Overview: dashboard.Overview{TotalUsers: 2000},
		Trends: []dashboard.TrendPoint{
			{Date: day, Total: 1, Counts: map[string]int{"maize": 1}},
			{Date: day.AddDate(0, 0, 1), Total: 2, Counts: map[string]int{"maize": 2}},
		},
		UserStats: map[string]dashboard.UserStats{"1": {TotalDetections: 3}},
	})
	repos := NewRepository(mock, mock).Repositories()

	overview, err := repos.Overview.FetchOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, overview.TotalUsers)

	trends, err := repos.Trends.FetchDiseaseTrends(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, 2, trends[0].Total)

	stats, err := repos.UserStats.FetchUserStats(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalDetections)

	_, err = repos.UserStats.FetchUserStats(context.Background(), "missing")
	assert.True(t, IsStatusError(err))
	assert.Equal(t, 1, mock.Calls(OpOverview))
}

func TestRepositoryWithoutClientsIsOffline(t *testing.T) {
	t.Parallel()
	repo := NewRepository(nil, nil)
	_, err := repo.FetchRegionalInsights(context.Background())
	assert.ErrorIs(t, err, dashboard.ErrOffline)
	_, err = repo.FetchUserStats(context.Background(), "1")
	assert.ErrorIs(t, err, dashboard.ErrOffline)
}

func TestMockFailuresSurface(t *testing.T) {
	t.Parallel()
	mock := NewMockClient(MockData{})
	boom := errors.New("boom")
	mock.Fail(OpUserGrowth, boom)
	_, err := NewRepository(mock, nil).FetchUserGrowth(context.Background())
	assert.ErrorIs(t, err, boom)

	mock.Fail(OpUserGrowth, nil)
	_, err = NewRepository(mock, nil).FetchUserGrowth(context.Background())
	assert.NoError(t, err)
}

func TestDiseaseForwarderLogsAndReturnsStored(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.InfoLevel)
	mock := NewMockClient(MockData{})
	sink := NewDiseaseForwarder(mock, zap.New(core))

	stored, err := sink.SubmitDisease(context.Background(), dashboard.Disease{ID: "d-1", Name: "Coffee Berry Disease"})
	require.NoError(t, err)
	assert.Equal(t, "d-1", stored.ID)
	require.Len(t, mock.Submitted(), 1)
	assert.Equal(t, 1, logs.FilterMessage("disease forwarded").Len())
}
