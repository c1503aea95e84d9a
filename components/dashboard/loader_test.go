package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestLoaderBracketsLoadingState(t *testing.T) {
	t.Parallel()
	view := MountView(context.Background(), "dashboard")
	defer view.Unmount()

	loader := NewLoader(view, func() int { return 7 }, []Task[int]{
		func(_ context.Context, out *int) error {
			*out = 3
			return nil
		},
	})
	var seen []bool
	loader.Observe(func(s ViewState[int]) { seen = append(seen, s.Loading) })

	state, applied := loader.Load()

	require.True(t, applied)
	assert.Equal(t, []bool{true, false}, seen)
	assert.Equal(t, 3, state.Data)
	assert.Equal(t, SourceLive, state.Source)
	assert.False(t, loader.State().Loading)
}

func TestLoaderFallsBackAndRecordsTelemetry(t *testing.T) {
	t.Parallel()
	view := MountView(context.Background(), "analytics")
	defer view.Unmount()
	telemetry := &recordingTelemetry{}

	loader := NewLoader(view, func() int { return 7 }, []Task[int]{
		func(context.Context, *int) error { return errors.New("timeout") },
	}, WithLoaderTelemetry(telemetry), WithLoaderName("analytics_report"))

	state, applied := loader.Load()

	require.True(t, applied)
	assert.Equal(t, 7, state.Data)
	assert.Equal(t, SourceFallback, state.Source)
	assert.Error(t, state.Err)
	assert.Equal(t, []string{"dashboard.widget.fallback"}, telemetry.Events())
}

func TestLoaderDropsResultAfterUnmount(t *testing.T) {
	t.Parallel()
	view := MountView(context.Background(), "users")
	loader := NewLoader(view, func() int { return 7 }, []Task[int]{
		func(_ context.Context, out *int) error {
			view.Unmount()
			*out = 99
			return nil
		},
	})
	var calls int
	loader.Observe(func(ViewState[int]) { calls++ })

	_, applied := loader.Load()

	assert.False(t, applied)
	assert.Equal(t, 1, calls, "only the loading transition is delivered")
	assert.Equal(t, 0, loader.State().Data)
}

func TestLoaderDropsSupersededResult(t *testing.T) {
	t.Parallel()
	view := MountView(context.Background(), "dashboard")
	defer view.Unmount()

	started := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once
	var loader *Loader[int]
	loader = NewLoader(view, func() int { return 0 }, []Task[int]{
		func(_ context.Context, out *int) error {
			isFirst := false
			first.Do(func() { isFirst = true })
			if isFirst {
				close(started)
				<-release
				*out = 1
				return nil
			}
			*out = 2
			return nil
		},
	})

	type outcome struct {
		state   ViewState[int]
		applied bool
	}
	stale := make(chan outcome, 1)
	go func() {
		s, ok := loader.Load()
		stale <- outcome{s, ok}
	}()
	<-started
	fresh, applied := loader.Load()
	close(release)
	old := <-stale

	require.True(t, applied)
	assert.Equal(t, 2, fresh.Data)
	assert.False(t, old.applied)
	assert.Equal(t, 2, loader.State().Data)
}

func TestNilViewIsAlwaysMounted(t *testing.T) {
	t.Parallel()
	var view *View
	assert.True(t, view.Mounted())
	assert.NotNil(t, view.Context())
	view.Unmount()
}

func TestViewFollowsParentCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	view := MountView(ctx, "settings")
	assert.True(t, view.Mounted())
	cancel()
	assert.False(t, view.Mounted())
	assert.Equal(t, "settings", view.Name())
}
