package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"localmarket/internal/domain/model"
	"localmarket/internal/navigation"
	repo "localmarket/internal/repository"

	"github.com/shopspring/decimal"
)

// 新着注文のお知らせに出す時刻ラベル
const justNowLabel = "الآن"

type CheckoutUsecase struct {
	catalogs repo.CatalogRepository
	sessions repo.SessionRepository
	tx       repo.TransactionManager
	totals   TotalsPolicy
	idGen    IDGenerator
	clock    Clock
	logger   *slog.Logger
}

// DI
func NewCheckoutUsecase(
	catalogs repo.CatalogRepository,
	sessions repo.SessionRepository,
	tx repo.TransactionManager,
	totals TotalsPolicy,
	idGen IDGenerator,
	clock Clock,
	logger *slog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		catalogs: catalogs,
		sessions: sessions,
		tx:       tx,
		totals:   totals,
		idGen:    idGen,
		clock:    clock,
		logger:   logger,
	}
}

type CheckoutSummary struct {
	Cart           CartOutput            `json:"cart"`
	Totals         Totals                `json:"totals"`
	PaymentMethods []model.PaymentMethod `json:"payment_methods"`
	ConfirmPath    string                `json:"confirm_path"`
}

type ConfirmCheckoutInput struct {
	PaymentMethod  string
	IdempotencyKey string
}

type ConfirmCheckoutOutput struct {
	Order    model.Order `json:"order"`
	NextPath string      `json:"next_path"`
	//同じキーで既に作られていた
	Replayed bool `json:"replayed"`
}

// チェックアウト画面の内容
func (u *CheckoutUsecase) Summary(ctx context.Context, sessionID string, kind model.CatalogKind) (CheckoutSummary, error) {
	if !kind.Valid() {
		return CheckoutSummary{}, NewHTTPError(http.StatusBadRequest, "invalid catalog")
	}

	s, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		return CheckoutSummary{}, sessionError(err)
	}

	products, err := listProducts(ctx, u.catalogs, kind)
	if err != nil {
		return CheckoutSummary{}, err
	}
	cart, err := checkoutCart(kind, products, s.Cart)
	if err != nil {
		return CheckoutSummary{}, err
	}

	return CheckoutSummary{
		Cart:           toCartOutput(cart),
		Totals:         u.totals.Compute(cart),
		PaymentMethods: []model.PaymentMethod{model.PaymentCash, model.PaymentVisa},
		ConfirmPath:    navigation.CheckoutPath(kind),
	}, nil
}

// 注文を確定する。カートから注文を作り、カートを空にする。
func (u *CheckoutUsecase) Confirm(ctx context.Context, sessionID string, kind model.CatalogKind, in ConfirmCheckoutInput) (ConfirmCheckoutOutput, error) {
	if !kind.Valid() {
		return ConfirmCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid catalog")
	}

	method := model.PaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = model.PaymentCash
	}
	if !method.Valid() {
		return ConfirmCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return ConfirmCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}

	s, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		return ConfirmCheckoutOutput{}, sessionError(err)
	}
	user := s.User

	var (
		order    model.Order
		replayed bool
	)

	//同じキーの再送ならカートを見ずに前回の注文を返す
	if key != "" {
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			o, found, err := r.Orders().FindByIdempotencyKey(ctx, user.ID, key)
			if err != nil {
				return dbError(err)
			}
			if found {
				order, replayed = o, true
			}
			return nil
		})
		if err != nil {
			return ConfirmCheckoutOutput{}, err
		}
		if replayed {
			return ConfirmCheckoutOutput{Order: order, NextPath: navigation.SuccessPath(order.Catalog), Replayed: true}, nil
		}
	}

	//ここでカートを空にして取り置く。以降の変更や同時の確定とは混ざらない
	cart, err := u.reserveCart(ctx, sessionID, kind)
	if err != nil {
		return ConfirmCheckoutOutput{}, err
	}

	now := u.clock.Now()
	order = u.buildOrder(cart, user, method, key)
	order.Timestamp = now

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if key != "" {
			o, found, err := r.Orders().FindByIdempotencyKey(ctx, user.ID, key)
			if err != nil {
				return dbError(err)
			}
			if found {
				order, replayed = o, true
				return nil
			}
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			return dbError(err)
		}

		//小売の注文は店舗に通知する
		if kind == model.CatalogConsumer {
			if err := r.Notifications().Create(ctx, newOrderNotification(u.idGen.NewID(), order, now)); err != nil {
				return dbError(err)
			}
		}
		return nil
	})
	if err != nil {
		u.returnCart(ctx, sessionID, cart)
		return ConfirmCheckoutOutput{}, err
	}

	if replayed {
		u.returnCart(ctx, sessionID, cart)
	} else {
		u.logger.InfoContext(ctx, "order placed",
			slog.String("order_id", order.ID),
			slog.String("user_id", user.ID),
			slog.String("catalog", string(kind)),
			slog.String("payment_method", string(method)),
			slog.Int("items", order.ItemCount()),
			slog.String("total", order.TotalAmount.Decimal.String()),
		)
	}

	return ConfirmCheckoutOutput{Order: order, NextPath: navigation.SuccessPath(kind), Replayed: replayed}, nil
}

// 空カート・別カタログのカートはチェックアウトできない
func checkoutCart(kind model.CatalogKind, products []model.Product, snap model.CartSnapshot) (*model.Cart, error) {
	if snap.Catalog != kind {
		return nil, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	cart := model.NewCart(kind, products)
	cart.Restore(snap)
	if cart.IsEmpty() {
		return nil, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	return cart, nil
}

// セッションのカートを読み出して同じ更新の中で空にする
func (u *CheckoutUsecase) reserveCart(ctx context.Context, sessionID string, kind model.CatalogKind) (*model.Cart, error) {
	products, err := listProducts(ctx, u.catalogs, kind)
	if err != nil {
		return nil, err
	}

	var cart *model.Cart
	err = u.sessions.Update(ctx, sessionID, func(s *model.Session) error {
		c, err := checkoutCart(kind, products, s.Cart)
		if err != nil {
			return err
		}
		cart = c
		s.Cart = model.CartSnapshot{Catalog: kind, Lines: map[string]int{}}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return nil, err
		}
		return nil, sessionError(err)
	}
	return cart, nil
}

func (u *CheckoutUsecase) buildOrder(cart *model.Cart, user model.UserProfile, method model.PaymentMethod, key string) model.Order {
	orderID := u.idGen.NewID()

	lines := cart.Lines()
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			OrderID:  orderID,
			ID:       l.Product.ID,
			Name:     l.Product.Name,
			Quantity: l.Quantity,
			Unit:     l.Product.PackageSize,
			IconType: l.Product.Category.IconType(),
			Price:    decimal.NewNullDecimal(l.Product.Price),
		})
	}

	totals := u.totals.Compute(cart)
	return model.Order{
		ID:              orderID,
		CustomerName:    user.Name,
		CustomerAddress: user.Address,
		Status:          model.OrderStatusPending,
		Items:           items,
		TotalAmount:     decimal.NewNullDecimal(totals.Total),
		Catalog:         cart.Catalog(),
		PaymentMethod:   method,
		PlacedBy:        user.ID,
		IdempotencyKey:  key,
	}
}

// 注文にならなかった取り置き分をカートに戻す。
// 取り置き後に入った数量には足し込む（上限で丸める）。
func (u *CheckoutUsecase) returnCart(ctx context.Context, sessionID string, cart *model.Cart) {
	kind := cart.Catalog()
	err := u.sessions.Update(ctx, sessionID, func(s *model.Session) error {
		//別カタログに切り替わっていたら戻さない
		if s.Cart.Catalog != kind {
			return nil
		}
		lines := make(map[string]int, len(s.Cart.Lines))
		for id, q := range s.Cart.Lines {
			lines[id] = q
		}
		for id, q := range cart.Items() {
			lines[id] = min(lines[id]+q, model.MaxLineQuantity)
		}
		s.Cart = model.CartSnapshot{Catalog: kind, Lines: lines}
		return nil
	})
	if err != nil {
		u.logger.WarnContext(ctx, "return reserved cart failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func newOrderNotification(id string, o model.Order, now time.Time) model.Notification {
	return model.Notification{
		ID:        id,
		Title:     "طلب جديد من " + o.CustomerName,
		Subtitle:  fmt.Sprintf("%d منتجات", o.ItemCount()),
		Time:      justNowLabel,
		Type:      model.NotificationOrder,
		IsRead:    false,
		OrderID:   o.ID,
		CreatedAt: now,
	}
}
