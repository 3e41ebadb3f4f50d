package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"localmarket/internal/domain/model"
	"localmarket/internal/infra/memory"
	"localmarket/internal/infra/seed"
	"localmarket/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportUsecase_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.orders.Create(ctx, model.Order{
		ID: "o-paid", Status: model.OrderStatusConfirmed, Catalog: model.CatalogConsumer, Timestamp: testNow,
		TotalAmount: decimal.NewNullDecimal(decimal.NewFromInt(200)),
	}))
	require.NoError(t, f.orders.Create(ctx, model.Order{
		ID: "o-wholesale", Status: model.OrderStatusConfirmed, Catalog: model.CatalogMerchant, Timestamp: testNow,
		TotalAmount: decimal.NewNullDecimal(decimal.NewFromInt(1030)),
	}))
	uc := usecase.NewReportUsecase(f.orders, f.notifications, f.data.Invoices)

	out, err := uc.Dashboard(ctx, merchantUser)
	require.NoError(t, err)

	assert.Equal(t, "demo shop", out.ShopName)
	assert.Equal(t, "tajer", out.OwnerName)
	assert.Equal(t, 4, out.NewOrders)
	assertDecimal(t, 200, out.Sales)
	assert.Equal(t, 2, out.UnreadNotifications)
	assert.Len(t, out.QuickActions, 4)

	_, err = uc.Dashboard(ctx, consumerUser)
	assertHTTPError(t, err, http.StatusForbidden, "merchant only")
}

func TestReportUsecase_InvoicesIsCopy(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewReportUsecase(f.orders, f.notifications, f.data.Invoices)

	out, err := uc.Invoices(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Invoices, 5)
	out.Invoices[0].Number = "changed"

	again, err := uc.Invoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1234", again.Invoices[0].Number)
}

func TestNotificationUsecase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := usecase.NewNotificationUsecase(f.notifications)

	out, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Items, 4)
	assert.Equal(t, 2, out.Unread)
	assert.Equal(t, "1", out.Items[0].ID)

	require.NoError(t, uc.MarkRead(ctx, "1"))
	out, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Unread)

	assertHTTPError(t, uc.MarkRead(ctx, "99"), http.StatusNotFound, "")
	assertHTTPError(t, uc.MarkRead(ctx, ""), http.StatusBadRequest, "")
}

func TestCatalogUsecase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := usecase.NewCatalogUsecase(f.catalogs)

	out, err := uc.List(ctx, model.CatalogMerchant, "")
	require.NoError(t, err)
	assert.Equal(t, 6, out.Total)

	dry, err := uc.List(ctx, model.CatalogMerchant, "dry")
	require.NoError(t, err)
	assert.Equal(t, 2, dry.Total)

	_, err = uc.List(ctx, model.CatalogMerchant, "toys")
	assertHTTPError(t, err, http.StatusBadRequest, "invalid category")

	_, err = uc.List(ctx, model.CatalogKind("x"), "")
	assertHTTPError(t, err, http.StatusBadRequest, "invalid catalog")

	p, err := uc.Get(ctx, model.CatalogConsumer, "c5")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryFresh, p.Category)

	_, err = uc.Get(ctx, model.CatalogConsumer, "p1")
	assertHTTPError(t, err, http.StatusNotFound, "")
}

func TestTotalsPolicy_EmptyCartComputed(t *testing.T) {
	f := newFixture(t)
	cart := model.NewCart(model.CatalogConsumer, f.data.Catalogs[model.CatalogConsumer])

	got := f.computedTotals().Compute(cart)

	assert.True(t, got.Subtotal.IsZero())
	assertDecimal(t, 20, got.Total)
}

func TestReportUsecase_Dashboard_CountsSeededSales(t *testing.T) {
	ctx := context.Background()
	data, err := seed.Parse([]byte(`
catalogs: {merchant: [], consumer: []}
orders:
  - {id: o1, status: delivered, catalog: consumer, total_amount: 500}
  - {id: o2, status: confirmed, catalog: consumer, total_amount: 120.5}
  - {id: o3, status: pending, catalog: consumer, total_amount: 80}
login_profiles: {MERCHANT: {name: m}, CONSUMER: {name: c}}
`))
	require.NoError(t, err)

	uc := usecase.NewReportUsecase(
		memory.NewOrderRepository(data.Orders),
		memory.NewNotificationRepository(nil),
		data.Invoices,
	)

	out, err := uc.Dashboard(ctx, merchantUser)
	require.NoError(t, err)
	assert.Equal(t, 1, out.NewOrders)
	assert.True(t, decimal.RequireFromString("620.5").Equal(out.Sales), "sales=%s", out.Sales)
}
