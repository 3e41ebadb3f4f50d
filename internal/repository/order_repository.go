package repository

import (
	"context"

	"localmarket/internal/domain/model"
)

type OrderListFilter struct {
	Catalog  model.CatalogKind
	Status   model.OrderStatus
	PlacedBy string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	//新しい順
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, userID string, key string) (model.Order, bool, error)
}
