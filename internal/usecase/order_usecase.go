package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

// 注文の参照（注文詳細画面）
type OrderUsecase struct {
	orders repo.OrderRepository
}

func NewOrderUsecase(orders repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders}
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int           `json:"total"`
}

// 自分が出した注文
func (u *OrderUsecase) ListMine(ctx context.Context, user model.UserProfile) (OrderListOutput, error) {
	if user.ID == "" {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.List(ctx, repo.OrderListFilter{PlacedBy: user.ID})
	if err != nil {
		return OrderListOutput{}, dbError(err)
	}
	return OrderListOutput{Items: orders, Total: len(orders)}, nil
}

// 店舗はすべて見られる。利用者は自分の注文だけ（他人のは404）
func (u *OrderUsecase) Detail(ctx context.Context, user model.UserProfile, orderID string) (model.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Order{}, dbError(err)
	}

	if !user.IsMerchant() && o.PlacedBy != user.ID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, nil
}
