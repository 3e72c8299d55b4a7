package cliniccontext

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestClinicIDFromContext(t *testing.T) {
	_, ok := ClinicIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClinicID(context.Background(), snowflake.ID(42))
	id, ok := ClinicIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(42), id)

	_, ok = ClinicIDFromContext(WithClinicID(context.Background(), 0))
	assert.False(t, ok)
}

func TestActorFromContext(t *testing.T) {
	assert.Nil(t, ActorIDPtr(context.Background()))

	ctx := WithActor(context.Background(), Actor{UserID: 7, Role: "admin"})
	actor, ok := ActorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin", actor.Role)
	assert.Equal(t, snowflake.ID(7), *ActorIDPtr(ctx))
}
