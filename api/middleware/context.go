package middleware

import "context"

type contextKey string

const ctxActorID contextKey = "actor_id"

// ActorIDFromContext returns the opaque actor identifier seeded by the
// ActorContext middleware, or "" when none was supplied.
func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}

// WithActorID injects the actor identifier into the context.
func WithActorID(ctx context.Context, actorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActorID, actorID)
}
