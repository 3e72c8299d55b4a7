package cliniccontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// ClinicContextKey is the request context key for the active clinic ID.
type ClinicContextKey struct{}

type actorContextKey struct{}

// Actor is the authenticated user acting on behalf of a clinic.
type Actor struct {
	UserID snowflake.ID
	Role   string
}

// WithClinicID stores the clinic ID in the context.
func WithClinicID(ctx context.Context, clinicID snowflake.ID) context.Context {
	return context.WithValue(ctx, ClinicContextKey{}, clinicID)
}

// ClinicIDFromContext returns the clinic ID from context, if set.
func ClinicIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(ClinicContextKey{}).(type) {
	case snowflake.ID:
		return typed, typed != 0
	case int64:
		return snowflake.ID(typed), typed != 0
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil && parsed != 0 {
			return parsed, true
		}
	}
	return 0, false
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok && actor.UserID != 0
}

// ActorIDPtr returns the actor user id, or nil for system callers.
func ActorIDPtr(ctx context.Context) *snowflake.ID {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil
	}
	id := actor.UserID
	return &id
}
