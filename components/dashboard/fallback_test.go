package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Left  string
	Right int
}

func TestJoinWithFallbackReturnsLiveValueVerbatim(t *testing.T) {
	t.Parallel()
	fallback := func() pair { return pair{Left: "fallback", Right: -1} }

	result := JoinWithFallback(context.Background(), fallback,
		func(_ context.Context, out *pair) error {
			out.Left = ""
			return nil
		},
		func(_ context.Context, out *pair) error {
			out.Right = 0
			return nil
		},
	)

	require.NoError(t, result.Err)
	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, pair{}, result.Data, "zero values from the live side must not be patched")
}

func TestJoinWithFallbackDiscardsPartialSuccess(t *testing.T) {
	t.Parallel()
	boom := errors.New("regional endpoint down")
	fallback := func() pair { return pair{Left: "fallback", Right: 42} }

	result := JoinWithFallback(context.Background(), fallback,
		func(_ context.Context, out *pair) error {
			out.Left = "live"
			return nil
		},
		func(context.Context, *pair) error {
			return boom
		},
	)

	assert.ErrorIs(t, result.Err, boom)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, pair{Left: "fallback", Right: 42}, result.Data)
}

func TestJoinWithFallbackWaitsForEveryTask(t *testing.T) {
	t.Parallel()
	var finished atomic.Int32
	release := make(chan struct{})

	done := make(chan Result[pair], 1)
	go func() {
		done <- JoinWithFallback(context.Background(), func() pair { return pair{} },
			func(context.Context, *pair) error {
				finished.Add(1)
				return errors.New("fast failure")
			},
			func(context.Context, *pair) error {
				<-release
				finished.Add(1)
				return nil
			},
		)
	}()

	select {
	case <-done:
		t.Fatalf("join settled before the slow task finished")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	result := <-done
	assert.Equal(t, int32(2), finished.Load())
	assert.Equal(t, SourceFallback, result.Source)
}

func TestJoinWithFallbackRequiresFallback(t *testing.T) {
	t.Parallel()
	result := JoinWithFallback[pair](context.Background(), nil)
	assert.ErrorIs(t, result.Err, errNoFallback)
}

func TestJoinWithFallbackWithoutTasksIsLive(t *testing.T) {
	t.Parallel()
	result := JoinWithFallback(context.Background(), func() pair { return pair{Left: "x"} })
	require.NoError(t, result.Err)
	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, pair{}, result.Data)
}
