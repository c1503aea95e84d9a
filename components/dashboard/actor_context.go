package dashboard

import "context"

// ActorContext identifies who triggered an event and from which route.
type ActorContext struct {
	UserID string
	Email  string
	Route  string
}

type actorContextKey struct{}

// ContextWithActor stores actor identifiers on ctx for telemetry.
func ContextWithActor(ctx context.Context, actor ActorContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored on ctx, if any.
func ActorFromContext(ctx context.Context) (ActorContext, bool) {
	if ctx == nil {
		return ActorContext{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(ActorContext)
	return actor, ok
}
