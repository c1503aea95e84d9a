package commands

import (
	"context"
	"maps"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

// Telemetry is the event sink commands report to.
type Telemetry = dashboard.Telemetry

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// actorTelemetry copies each payload and adds the acting operator's email
// when the command did not set one. Login runs before a user ID exists, so
// the email is the only stable actor key across auth events.
type actorTelemetry struct {
	next Telemetry
}

func (t actorTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	out := make(map[string]any, len(payload)+1)
	maps.Copy(out, payload)
	if actor, ok := dashboard.ActorFromContext(ctx); ok && actor.Email != "" {
		if _, set := out["email"]; !set {
			out["email"] = actor.Email
		}
	}
	t.next.Record(ctx, event, out)
}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return actorTelemetry{next: t}
}
