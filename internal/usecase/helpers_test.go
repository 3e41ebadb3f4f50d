package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"localmarket/internal/domain/model"
	"localmarket/internal/infra/memory"
	"localmarket/internal/infra/seed"
	"localmarket/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// 呼ばれた順に id-1, id-2 ... を返す
type counterIDs struct{ n int }

func (g *counterIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// テストごとに作り直すメモリ上の一式
type fixture struct {
	data          seed.Data
	catalogs      *memory.CatalogRepository
	sessions      *memory.SessionRepository
	orders        *memory.OrderRepository
	notifications *memory.NotificationRepository
	auditLogs     *memory.AuditLogRepository
	tx            *memory.TxManager
	ids           *counterIDs
	clock         *fixedClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)

	orders := memory.NewOrderRepository(data.Orders)
	notifications := memory.NewNotificationRepository(data.Notifications)
	auditLogs := memory.NewAuditLogRepository()
	return &fixture{
		data:          data,
		catalogs:      memory.NewCatalogRepository(data.Catalogs),
		sessions:      memory.NewSessionRepository(),
		orders:        orders,
		notifications: notifications,
		auditLogs:     auditLogs,
		tx:            memory.NewTxManager(orders, notifications, auditLogs),
		ids:           &counterIDs{},
		clock:         &fixedClock{now: testNow},
	}
}

func (f *fixture) addSession(t *testing.T, id string, user model.UserProfile) {
	t.Helper()
	require.NoError(t, f.sessions.Create(context.Background(), model.Session{
		ID:        id,
		User:      user,
		Cart:      model.CartSnapshot{Catalog: user.Role.Catalog(), Lines: map[string]int{}},
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(time.Hour),
	}))
}

func (f *fixture) computedTotals() usecase.TotalsPolicy {
	return usecase.NewComputedTotals(usecase.AmountTable{
		model.CatalogConsumer: decimal.NewFromInt(20),
		model.CatalogMerchant: decimal.NewFromInt(100),
	})
}

var (
	merchantUser = model.UserProfile{ID: "m1", Name: "tajer", Role: model.RoleMerchant, Address: "Cairo", Merchant: &model.MerchantDetails{ShopName: "demo shop"}}
	consumerUser = model.UserProfile{ID: "c1", Name: "Mona", Role: model.RoleConsumer, Address: "Maadi"}
)

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	if message != "" {
		assert.Equal(t, message, he.Message)
	}
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}
