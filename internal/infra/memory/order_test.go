package memory_test

import (
	"context"
	"testing"
	"time"

	"localmarket/internal/domain/model"
	"localmarket/internal/infra/memory"
	repo "localmarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrders() []model.Order {
	base := time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC)
	return []model.Order{
		{ID: "ord-002", Status: model.OrderStatusPending, Catalog: model.CatalogConsumer, Timestamp: base.Add(-time.Hour)},
		{ID: "ord-001", Status: model.OrderStatusPending, Catalog: model.CatalogConsumer, Timestamp: base,
			Items: []model.OrderItem{{ID: "i1", Quantity: 3}}},
		{ID: "ord-w1", Status: model.OrderStatusConfirmed, Catalog: model.CatalogMerchant, Timestamp: base.Add(-2 * time.Hour), PlacedBy: "u1", IdempotencyKey: "k1"},
	}
}

func TestOrderRepository_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	r := memory.NewOrderRepository(seedOrders())

	all, err := r.List(ctx, repo.OrderListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"ord-001", "ord-002", "ord-w1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	consumer, err := r.List(ctx, repo.OrderListFilter{Catalog: model.CatalogConsumer})
	require.NoError(t, err)
	assert.Len(t, consumer, 2)

	confirmed, err := r.List(ctx, repo.OrderListFilter{Status: model.OrderStatusConfirmed})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "ord-w1", confirmed[0].ID)

	mine, err := r.List(ctx, repo.OrderListFilter{PlacedBy: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestOrderRepository_CreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	r := memory.NewOrderRepository(nil)

	o := model.Order{ID: "o1", Status: model.OrderStatusPending, Items: []model.OrderItem{{ID: "p1", Quantity: 1}}}
	require.NoError(t, r.Create(ctx, o))
	assert.ErrorIs(t, r.Create(ctx, o), repo.ErrConflict)

	got, err := r.FindByID(ctx, "o1")
	require.NoError(t, err)
	got.Items[0].Quantity = 50

	again, err := r.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)

	require.NoError(t, r.UpdateStatus(ctx, "o1", model.OrderStatusConfirmed))
	again, err = r.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, again.Status)

	assert.ErrorIs(t, r.UpdateStatus(ctx, "missing", model.OrderStatusConfirmed), repo.ErrNotFound)
	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderRepository_FindByIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	r := memory.NewOrderRepository(seedOrders())

	o, found, err := r.FindByIdempotencyKey(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ord-w1", o.ID)

	_, found, err = r.FindByIdempotencyKey(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = r.FindByIdempotencyKey(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, found)
}
