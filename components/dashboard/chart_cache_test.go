package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(time.Minute, 0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
}

func TestChartCacheExpires(t *testing.T) {
	cache := NewChartCache(time.Minute, 0)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCacheDoesNotStoreErrors(t *testing.T) {
	cache := NewChartCache(time.Minute, 0)
	_, err := cache.GetOrRender("key", func() (string, error) { return "", errors.New("render failed") })
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestChartCacheEvictsWhenFull(t *testing.T) {
	cache := NewChartCache(time.Minute, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	render := func() (string, error) { return "x", nil }

	for _, key := range []string{"a", "b", "c"} {
		_, err := cache.GetOrRender(key, render)
		require.NoError(t, err)
		now = now.Add(time.Second)
	}

	assert.Equal(t, 2, cache.Len())
	cache.mu.Lock()
	_, hasOldest := cache.entries["a"]
	cache.mu.Unlock()
	assert.False(t, hasOldest)
}

func TestSpecHashIsStable(t *testing.T) {
	spec := ChartSpec{Kind: ChartBar, Title: "Cases", Series: []ChartSeries{{Name: "Cases", Points: []ChartPoint{{Label: "Central", Value: 1}}}}}
	assert.Equal(t, specHash(spec), specHash(spec))
	other := spec
	other.Title = "Other"
	assert.NotEqual(t, specHash(spec), specHash(other))
}
