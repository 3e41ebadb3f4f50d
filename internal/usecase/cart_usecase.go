package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"

	"github.com/shopspring/decimal"
)

// セッションに紐づくカート
type CartUsecase struct {
	catalogs repo.CatalogRepository
	sessions repo.SessionRepository
	logger   *slog.Logger
}

// DI
func NewCartUsecase(catalogs repo.CatalogRepository, sessions repo.SessionRepository, logger *slog.Logger) *CartUsecase {
	return &CartUsecase{catalogs: catalogs, sessions: sessions, logger: logger}
}

type CartLineOutput struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	PackageSize string          `json:"package_size,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type CartOutput struct {
	Catalog        model.CatalogKind `json:"catalog"`
	Items          []CartLineOutput  `json:"items"`
	TotalItemCount int               `json:"total_item_count"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	CanCheckout    bool              `json:"can_checkout"`
}

// 別カタログのカートなら空で返す（保存はしない）
func (u *CartUsecase) Get(ctx context.Context, sessionID string, kind model.CatalogKind) (CartOutput, error) {
	if !kind.Valid() {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid catalog")
	}

	s, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		return CartOutput{}, sessionError(err)
	}

	cart, err := loadCart(ctx, u.catalogs, kind, s.Cart)
	if err != nil {
		return CartOutput{}, err
	}
	return toCartOutput(cart), nil
}

// 数量をdeltaだけ変える。別カタログのカートは捨ててから始める。
func (u *CartUsecase) ChangeQuantity(ctx context.Context, sessionID string, kind model.CatalogKind, productID string, delta int) (CartOutput, error) {
	if !kind.Valid() {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid catalog")
	}
	if strings.TrimSpace(productID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	products, err := listProducts(ctx, u.catalogs, kind)
	if err != nil {
		return CartOutput{}, err
	}

	var out CartOutput
	err = u.sessions.Update(ctx, sessionID, func(s *model.Session) error {
		cart := model.NewCart(kind, products)
		if s.Cart.Catalog == kind {
			cart.Restore(s.Cart)
		} else if len(s.Cart.Lines) > 0 {
			u.logger.InfoContext(ctx, "cart catalog switched",
				slog.String("session_id", s.ID),
				slog.String("from", string(s.Cart.Catalog)),
				slog.String("to", string(kind)),
			)
		}

		if err := cart.SetQuantity(productID, delta); err != nil {
			if errors.Is(err, model.ErrInvalidProduct) {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if errors.Is(err, model.ErrInvalidQuantity) {
				return NewHTTPError(http.StatusBadRequest, "invalid quantity")
			}
			return err
		}

		s.Cart = cart.Snapshot()
		out = toCartOutput(cart)
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return CartOutput{}, err
		}
		return CartOutput{}, sessionError(err)
	}
	return out, nil
}

// 指定カタログのカートを空にする
func (u *CartUsecase) Clear(ctx context.Context, sessionID string, kind model.CatalogKind) (CartOutput, error) {
	if !kind.Valid() {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid catalog")
	}

	err := u.sessions.Update(ctx, sessionID, func(s *model.Session) error {
		//別カタログのカートには触らない
		if s.Cart.Catalog != kind {
			return nil
		}
		s.Cart = model.CartSnapshot{Catalog: kind, Lines: map[string]int{}}
		return nil
	})
	if err != nil {
		return CartOutput{}, sessionError(err)
	}

	return CartOutput{Catalog: kind, Items: []CartLineOutput{}, Subtotal: decimal.Zero}, nil
}

func listProducts(ctx context.Context, catalogs repo.CatalogRepository, kind model.CatalogKind) ([]model.Product, error) {
	products, err := catalogs.List(ctx, kind, repo.ProductListQuery{})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, dbError(err)
	}
	return products, nil
}

// スナップショットからカートを組み立てる
func loadCart(ctx context.Context, catalogs repo.CatalogRepository, kind model.CatalogKind, snap model.CartSnapshot) (*model.Cart, error) {
	products, err := listProducts(ctx, catalogs, kind)
	if err != nil {
		return nil, err
	}
	cart := model.NewCart(kind, products)
	cart.Restore(snap)
	return cart, nil
}

func toCartOutput(cart *model.Cart) CartOutput {
	lines := cart.Lines()
	items := make([]CartLineOutput, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartLineOutput{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			PackageSize: l.Product.PackageSize,
			Price:       l.Product.Price,
			Quantity:    l.Quantity,
			LineTotal:   l.LineTotal(),
		})
	}

	return CartOutput{
		Catalog:        cart.Catalog(),
		Items:          items,
		TotalItemCount: cart.TotalItemCount(),
		Subtotal:       cart.Subtotal(),
		CanCheckout:    !cart.IsEmpty(),
	}
}

// セッションが消えていたら401
func sessionError(err error) error {
	if errors.Is(err, repo.ErrSessionNotFound) {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return &HTTPError{Status: http.StatusInternalServerError, Message: "session error", Err: err}
}
