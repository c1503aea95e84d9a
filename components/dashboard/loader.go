package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// View is the liveness token of one mounted page. Loaders bound to a view
// apply results only while the view is mounted.
type View struct {
	ctx    context.Context
	cancel context.CancelFunc
	name   string
}

// MountView starts a view whose lifetime is bounded by parent.
func MountView(parent context.Context, name string) *View {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &View{ctx: ctx, cancel: cancel, name: name}
}

// Context returns the context every fetch issued for this view runs under.
func (v *View) Context() context.Context {
	if v == nil {
		return context.Background()
	}
	return v.ctx
}

// Name identifies the view in logs.
func (v *View) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Mounted reports whether the view is still alive.
func (v *View) Mounted() bool {
	if v == nil {
		return true
	}
	return v.ctx.Err() == nil
}

// Unmount cancels in-flight fetches and stops result delivery.
func (v *View) Unmount() {
	if v == nil {
		return
	}
	v.cancel()
}

// ViewState is the data driving one widget's render.
type ViewState[T any] struct {
	Loading bool
	Data    T
	Source  Source
	Err     error
}

// LoaderOption customises a Loader.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	logger    *zap.Logger
	telemetry Telemetry
	name      string
}

// WithLoaderLogger attaches a logger for fallback diagnostics.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(c *loaderConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLoaderTelemetry records fallback events.
func WithLoaderTelemetry(t Telemetry) LoaderOption {
	return func(c *loaderConfig) {
		c.telemetry = normalizeTelemetry(t)
	}
}

// WithLoaderName labels log lines and telemetry events.
func WithLoaderName(name string) LoaderOption {
	return func(c *loaderConfig) {
		c.name = name
	}
}

// Loader drives a fetch group through loading to a single terminal state.
type Loader[T any] struct {
	view     *View
	fallback func() T
	tasks    []Task[T]
	cfg      loaderConfig

	mu         sync.Mutex
	state      ViewState[T]
	generation uint64
	observers  []func(ViewState[T])
}

// NewLoader binds a fetch group and its fallback to a view.
func NewLoader[T any](view *View, fallback func() T, tasks []Task[T], opts ...LoaderOption) *Loader[T] {
	cfg := loaderConfig{logger: zap.NewNop(), telemetry: noopTelemetry{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loader[T]{
		view:     view,
		fallback: fallback,
		tasks:    tasks,
		cfg:      cfg,
	}
}

// Observe registers a callback invoked on every applied state change.
func (l *Loader[T]) Observe(fn func(ViewState[T])) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

// State returns a snapshot of the current view state.
func (l *Loader[T]) State() ViewState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load runs the fetch group and returns the terminal state. The returned
// flag is false when the result was dropped because the view unmounted or a
// newer invocation superseded this one.
func (l *Loader[T]) Load() (ViewState[T], bool) {
	l.mu.Lock()
	l.generation++
	token := l.generation
	l.state.Loading = true
	l.notifyLocked()
	l.mu.Unlock()

	result := JoinWithFallback(l.view.Context(), l.fallback, l.tasks...)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.view.Mounted() || token != l.generation {
		l.cfg.logger.Debug("dropping stale view result",
			zap.String("view", l.view.Name()),
			zap.String("loader", l.cfg.name),
		)
		return l.state, false
	}
	if result.Err != nil {
		l.cfg.logger.Warn("fetch group failed, using fallback data",
			zap.String("view", l.view.Name()),
			zap.String("loader", l.cfg.name),
			zap.Error(result.Err),
		)
		l.cfg.telemetry.Record(l.view.Context(), "dashboard.widget.fallback", map[string]any{
			"loader": l.cfg.name,
			"error":  result.Err.Error(),
		})
	}
	l.state = ViewState[T]{
		Loading: false,
		Data:    result.Data,
		Source:  result.Source,
		Err:     result.Err,
	}
	l.notifyLocked()
	return l.state, true
}

func (l *Loader[T]) notifyLocked() {
	for _, fn := range l.observers {
		fn(l.state)
	}
}
