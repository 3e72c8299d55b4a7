package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	"github.com/smallbiznis/clinicdesk/internal/inventory/repository"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Item{}, &domain.Adjustment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func clinicCtx(id int64) context.Context {
	return cliniccontext.WithClinicID(context.Background(), snowflake.ID(id))
}

func TestCreateItemRejectsDuplicateSKU(t *testing.T) {
	svc := newTestService(t)
	ctx := clinicCtx(1)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{Name: "Ashwagandha", SKU: "ash-100", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, "ASH-100", item.SKU)
	assert.Equal(t, "unit", item.Unit)

	_, err = svc.CreateItem(ctx, domain.CreateItemRequest{Name: "Ashwagandha 2", SKU: "ASH-100"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

	// SKUs are scoped per clinic.
	_, err = svc.CreateItem(clinicCtx(2), domain.CreateItemRequest{Name: "Ashwagandha", SKU: "ASH-100"})
	assert.NoError(t, err)
}

func TestAdjustInOutSet(t *testing.T) {
	svc := newTestService(t)
	ctx := clinicCtx(1)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{Name: "Oil", SKU: "OIL", Quantity: 5})
	require.NoError(t, err)
	id := item.ID.String()

	adj, err := svc.Adjust(ctx, id, domain.AdjustRequest{Kind: "in", Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(12), adj.BalanceAfter)

	adj, err = svc.Adjust(ctx, id, domain.AdjustRequest{Kind: "OUT", Quantity: 2, Reason: "used"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), adj.BalanceAfter)

	adj, err = svc.Adjust(ctx, id, domain.AdjustRequest{Kind: "SET", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), adj.BalanceAfter)

	got, err := svc.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)

	history, err := svc.ListAdjustments(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestAdjustOutCannotGoNegative(t *testing.T) {
	svc := newTestService(t)
	ctx := clinicCtx(1)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{Name: "Gauze", SKU: "GZ", Quantity: 2})
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, item.ID.String(), domain.AdjustRequest{Kind: "OUT", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := svc.GetItem(ctx, item.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)

	history, err := svc.ListAdjustments(ctx, item.ID.String())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAdjustValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := clinicCtx(1)

	item, err := svc.CreateItem(ctx, domain.CreateItemRequest{Name: "Gauze", SKU: "GZ"})
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, item.ID.String(), domain.AdjustRequest{Kind: "MOVE", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = svc.Adjust(ctx, item.ID.String(), domain.AdjustRequest{Kind: "IN", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Adjust(clinicCtx(2), item.ID.String(), domain.AdjustRequest{Kind: "IN", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLowStock(t *testing.T) {
	svc := newTestService(t)
	ctx := clinicCtx(1)

	_, err := svc.CreateItem(ctx, domain.CreateItemRequest{Name: "Low", SKU: "L1", Quantity: 1, ReorderLevel: 5})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, domain.CreateItemRequest{Name: "Plenty", SKU: "P1", Quantity: 50, ReorderLevel: 5})
	require.NoError(t, err)

	all, err := svc.ListItems(ctx, domain.ListItemRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	low, err := svc.ListItems(ctx, domain.ListItemRequest{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Low", low[0].Name)

	count, err := svc.CountLowStock(ctx, snowflake.ID(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
