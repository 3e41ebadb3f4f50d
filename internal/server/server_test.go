package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"localmarket/internal/config"
	"localmarket/internal/domain/model"
	"localmarket/internal/handler"
	"localmarket/internal/infra/export"
	"localmarket/internal/infra/memory"
	"localmarket/internal/infra/seed"
	"localmarket/internal/server"
	"localmarket/internal/usecase"
	auth "localmarket/internal/usecase/auth_usecase"
	"localmarket/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"golang.org/x/crypto/bcrypt"
)

type counterIDs struct{ n int }

func (g *counterIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// メモリ保存で全体を組み立てる
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	data, err := seed.Load()
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalogs := memory.NewCatalogRepository(data.Catalogs)
	orders := memory.NewOrderRepository(data.Orders)
	notifications := memory.NewNotificationRepository(data.Notifications)
	auditLogs := memory.NewAuditLogRepository()
	tx := memory.NewTxManager(orders, notifications, auditLogs)
	sessions := memory.NewSessionRepository()

	ids := &counterIDs{}
	clock := wallClock{}
	totals := usecase.NewComputedTotals(usecase.AmountTable{
		model.CatalogConsumer: decimal.NewFromInt(20),
		model.CatalogMerchant: decimal.NewFromInt(100),
	})

	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)
	v := validator.NewAuthValidator()

	sessionUC := auth.NewSessionUsecase(sessions, clock, logger)
	h := server.Handlers{
		Navigation: handler.NewNavigationHandler(sessionUC),
		Catalog:    handler.NewCatalogHandler(usecase.NewCatalogUsecase(catalogs)),
		Auth: handler.NewAuthHandler(
			auth.NewLoginUsecase(sessions, v, hasher, issuer, ids, clock, cfg.SessionTTL, auth.ProfileTemplates(data.LoginProfiles), logger),
			auth.NewRegisterUserUsecase(sessions, v, hasher, issuer, ids, clock, cfg.SessionTTL, logger),
			sessionUC,
		),
		Cart: handler.NewCartHandler(
			usecase.NewCartUsecase(catalogs, sessions, logger),
			usecase.NewCheckoutUsecase(catalogs, sessions, tx, totals, ids, clock, logger),
		),
		Order: handler.NewOrderHandler(usecase.NewOrderUsecase(orders)),
		Merchant: handler.NewMerchantHandler(
			usecase.NewMerchantOrderUsecase(orders, auditLogs, tx, clock, logger),
			usecase.NewNotificationUsecase(notifications),
			usecase.NewReportUsecase(orders, notifications, data.Invoices),
		),
	}

	ts := httptest.NewServer(server.New(cfg, logger, sessionUC, h))
	t.Cleanup(ts.Close)
	return ts
}

type testClient struct {
	baseURL string
	http    *http.Client
}

func (c *testClient) do(t *testing.T, method string, path string, bearer string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.baseURL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := c.http.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	require.Equal(t, want, resp.StatusCode, "body=%s", string(body))
}

func mustDecode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body=%s", string(body))
	return v
}

type authResponse struct {
	User struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	Token struct {
		AccessToken string `json:"access_token"`
	} `json:"token"`
	NextPath string `json:"next_path"`
}

type cartResponse struct {
	Catalog        string          `json:"catalog"`
	TotalItemCount int             `json:"total_item_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CanCheckout    bool            `json:"can_checkout"`
}

type summaryResponse struct {
	Totals struct {
		Subtotal    decimal.Decimal `json:"subtotal"`
		DeliveryFee decimal.Decimal `json:"delivery_fee"`
		Total       decimal.Decimal `json:"total"`
	} `json:"totals"`
}

type confirmResponse struct {
	Order struct {
		ID          string          `json:"id"`
		Status      string          `json:"status"`
		TotalAmount decimal.Decimal `json:"total_amount"`
	} `json:"order"`
	NextPath string `json:"next_path"`
	Replayed bool   `json:"replayed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func login(t *testing.T, c *testClient, role string) string {
	t.Helper()
	resp, body := c.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"role": role, "identifier": "0100", "password": "password123",
	})
	requireStatus(t, resp, http.StatusOK, body)

	out := mustDecode[authResponse](t, body)
	require.NotEmpty(t, out.Token.AccessToken)
	assert.Equal(t, "/home", out.NextPath)
	return out.Token.AccessToken
}

func TestE2E_MerchantWholesaleCheckout(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{baseURL: ts.URL, http: ts.Client()}
	tok := login(t, c, "MERCHANT")

	for _, step := range []struct {
		product string
		delta   int
	}{{"p1", 1}, {"p1", 1}, {"p2", 1}} {
		resp, body := c.do(t, http.MethodPatch, "/cart/merchant/items/"+step.product, tok, map[string]int{"delta": step.delta})
		requireStatus(t, resp, http.StatusOK, body)
	}

	resp, body := c.do(t, http.MethodGet, "/cart/merchant", tok, nil)
	requireStatus(t, resp, http.StatusOK, body)
	cart := mustDecode[cartResponse](t, body)
	assert.Equal(t, 3, cart.TotalItemCount)
	assert.True(t, decimal.NewFromInt(930).Equal(cart.Subtotal))
	assert.True(t, cart.CanCheckout)

	resp, body = c.do(t, http.MethodGet, "/cart/merchant/checkout", tok, nil)
	requireStatus(t, resp, http.StatusOK, body)
	sum := mustDecode[summaryResponse](t, body)
	assert.True(t, decimal.NewFromInt(1030).Equal(sum.Totals.Total))

	resp, body = c.do(t, http.MethodPost, "/cart/merchant/checkout", tok, map[string]string{"payment_method": "cash"}, "X-Idempotency-Key", "k-1")
	requireStatus(t, resp, http.StatusCreated, body)
	confirmed := mustDecode[confirmResponse](t, body)
	assert.Equal(t, "pending", confirmed.Order.Status)
	assert.Equal(t, "/merchant/order-success", confirmed.NextPath)
	assert.True(t, decimal.NewFromInt(1030).Equal(confirmed.Order.TotalAmount))

	//再送は同じ注文で200
	resp, body = c.do(t, http.MethodPost, "/cart/merchant/checkout", tok, map[string]string{"payment_method": "cash"}, "X-Idempotency-Key", "k-1")
	requireStatus(t, resp, http.StatusOK, body)
	replayed := mustDecode[confirmResponse](t, body)
	assert.True(t, replayed.Replayed)
	assert.Equal(t, confirmed.Order.ID, replayed.Order.ID)

	resp, body = c.do(t, http.MethodPost, "/cart/merchant/checkout", tok, map[string]string{})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "cart empty", mustDecode[errorResponse](t, body).Error)

	resp, body = c.do(t, http.MethodGet, "/orders/"+confirmed.Order.ID, tok, nil)
	requireStatus(t, resp, http.StatusOK, body)
}

func TestE2E_ConsumerOrderReachesMerchant(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{baseURL: ts.URL, http: ts.Client()}

	resp, body := c.do(t, http.MethodPost, "/auth/register/consumer", "", map[string]string{
		"name": "Mona", "phone": "0111", "password": "pw", "address": "Maadi",
	})
	requireStatus(t, resp, http.StatusCreated, body)
	consumer := mustDecode[authResponse](t, body).Token.AccessToken

	resp, body = c.do(t, http.MethodPatch, "/cart/consumer/items/c5", consumer, map[string]int{"delta": 2})
	requireStatus(t, resp, http.StatusOK, body)
	resp, body = c.do(t, http.MethodPost, "/cart/consumer/checkout", consumer, map[string]string{"payment_method": "visa"})
	requireStatus(t, resp, http.StatusCreated, body)
	order := mustDecode[confirmResponse](t, body)
	assert.Equal(t, "/consumer/success", order.NextPath)

	//店舗専用ルートは利用者には403
	resp, body = c.do(t, http.MethodGet, "/merchant/orders", consumer, nil)
	requireStatus(t, resp, http.StatusForbidden, body)

	merchant := login(t, c, "MERCHANT")

	resp, body = c.do(t, http.MethodGet, "/merchant/notifications", merchant, nil)
	requireStatus(t, resp, http.StatusOK, body)
	notes := mustDecode[struct {
		Items []struct {
			ID      string `json:"id"`
			OrderID string `json:"order_id"`
		} `json:"items"`
		Unread int `json:"unread"`
	}](t, body)
	require.NotEmpty(t, notes.Items)
	assert.Equal(t, order.Order.ID, notes.Items[0].OrderID)
	assert.Equal(t, 3, notes.Unread)

	resp, body = c.do(t, http.MethodPatch, "/merchant/notifications/"+notes.Items[0].ID+"/read", merchant, nil)
	requireStatus(t, resp, http.StatusNoContent, body)

	resp, body = c.do(t, http.MethodPatch, "/merchant/orders/"+order.Order.ID+"/status", merchant, map[string]string{"status": "confirmed"})
	requireStatus(t, resp, http.StatusOK, body)
	resp, body = c.do(t, http.MethodPatch, "/merchant/orders/"+order.Order.ID+"/status", merchant, map[string]string{"status": "pending"})
	requireStatus(t, resp, http.StatusBadRequest, body)

	resp, body = c.do(t, http.MethodGet, "/merchant/orders/"+order.Order.ID+"/history", merchant, nil)
	requireStatus(t, resp, http.StatusOK, body)
	history := mustDecode[struct {
		Items []struct {
			AfterJSON string `json:"after_json"`
		} `json:"items"`
	}](t, body)
	require.Len(t, history.Items, 1)
	assert.Equal(t, `{"status":"confirmed"}`, history.Items[0].AfterJSON)

	resp, body = c.do(t, http.MethodGet, "/merchant/dashboard", merchant, nil)
	requireStatus(t, resp, http.StatusOK, body)
	dash := mustDecode[struct {
		NewOrders int             `json:"new_orders"`
		Sales     decimal.Decimal `json:"sales"`
	}](t, body)
	assert.Equal(t, 4, dash.NewOrders)
	assert.True(t, decimal.NewFromInt(280).Equal(dash.Sales), "sales=%s", dash.Sales)

	//利用者は自分の注文だけ見える
	resp, body = c.do(t, http.MethodGet, "/orders/ord-001", consumer, nil)
	requireStatus(t, resp, http.StatusNotFound, body)
}

func TestE2E_LogoutInvalidatesToken(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{baseURL: ts.URL, http: ts.Client()}
	tok := login(t, c, "CONSUMER")

	resp, body := c.do(t, http.MethodGet, "/auth/me", tok, nil)
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = c.do(t, http.MethodPost, "/auth/logout", tok, nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, "/auth-start", mustDecode[struct {
		NextPath string `json:"next_path"`
	}](t, body).NextPath)

	resp, body = c.do(t, http.MethodGet, "/auth/me", tok, nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)
	resp, body = c.do(t, http.MethodGet, "/cart/consumer", tok, nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)
}

func TestE2E_AuthValidation(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{baseURL: ts.URL, http: ts.Client()}

	resp, body := c.do(t, http.MethodPost, "/auth/login", "", map[string]string{"role": "MERCHANT", "identifier": "", "password": "x"})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "missing required field: identifier", mustDecode[errorResponse](t, body).Error)

	resp, body = c.do(t, http.MethodPost, "/auth/login", "", map[string]string{"role": "ADMIN", "identifier": "a", "password": "x"})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "invalid role", mustDecode[errorResponse](t, body).Error)

	resp, body = c.do(t, http.MethodPost, "/auth/register/merchant", "", map[string]string{"name": "a", "phone": "1"})
	requireStatus(t, resp, http.StatusBadRequest, body)
}

func TestE2E_NavigationAndCatalog(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{baseURL: ts.URL, http: ts.Client()}

	resp, body := c.do(t, http.MethodGet, "/healthz", "", nil)
	requireStatus(t, resp, http.StatusOK, body)

	type navResponse struct {
		Path    string `json:"path"`
		Targets *struct {
			Home string `json:"home"`
		} `json:"targets"`
	}

	resp, body = c.do(t, http.MethodGet, "/navigation?path=/merchant/dashboard", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, "/auth-start", mustDecode[navResponse](t, body).Path)

	tok := login(t, c, "MERCHANT")
	resp, body = c.do(t, http.MethodGet, "/navigation?path=/merchant/dashboard", tok, nil)
	requireStatus(t, resp, http.StatusOK, body)
	nav := mustDecode[navResponse](t, body)
	assert.Equal(t, "/merchant/dashboard", nav.Path)
	require.NotNil(t, nav.Targets)
	assert.Equal(t, "/merchant/dashboard", nav.Targets.Home)

	//無効なトークンは未ログイン扱い
	resp, body = c.do(t, http.MethodGet, "/navigation?path=/home", "broken", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, "/auth-start", mustDecode[navResponse](t, body).Path)

	resp, body = c.do(t, http.MethodGet, "/navigation/routes", "", nil)
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = c.do(t, http.MethodGet, "/catalogs/consumer/products?category=dry", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, 2, mustDecode[struct {
		Total int `json:"total"`
	}](t, body).Total)

	resp, body = c.do(t, http.MethodGet, "/catalogs/wholesale/products", "", nil)
	requireStatus(t, resp, http.StatusBadRequest, body)
}

func TestE2E_MerchantExports(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{baseURL: ts.URL, http: ts.Client()}
	tok := login(t, c, "MERCHANT")

	resp, body := c.do(t, http.MethodGet, "/merchant/orders/export", tok, nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, export.ContentTypeXLSX, resp.Header.Get("Content-Type"))

	f, err := xlsx.OpenBinary(body)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "Orders", f.Sheets[0].Name)
	assert.Len(t, f.Sheets[0].Rows, 5)

	resp, body = c.do(t, http.MethodGet, "/merchant/invoices/export", tok, nil)
	requireStatus(t, resp, http.StatusOK, body)
	f, err = xlsx.OpenBinary(body)
	require.NoError(t, err)
	assert.Len(t, f.Sheets[0].Rows, 6)
}
