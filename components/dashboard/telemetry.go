package dashboard

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// ZapTelemetry writes events as structured debug log lines.
type ZapTelemetry struct {
	logger *zap.Logger
}

// NewZapTelemetry logs events through logger.
func NewZapTelemetry(logger *zap.Logger) *ZapTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTelemetry{logger: logger.Named("telemetry")}
}

// Record emits one log line per event with payload keys sorted. The actor on
// ctx, if any, is attached as well.
func (t *ZapTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys)+3)
	fields = append(fields, zap.String("event", event))
	if actor, ok := ActorFromContext(ctx); ok {
		fields = append(fields, zap.String("actor", actor.UserID), zap.String("route", actor.Route))
	}
	for _, key := range keys {
		fields = append(fields, zap.Any(key, payload[key]))
	}
	t.logger.Debug("dashboard event", fields...)
}
