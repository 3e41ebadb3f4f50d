package repository

import (
	"context"
	"errors"

	"localmarket/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	//同じIDがすでにある
	ErrConflict = errors.New("conflict")
)

// 一覧の絞り込み
type ProductListQuery struct {
	Category model.Category
}

// 読み取り専用のカタログ
type CatalogRepository interface {
	List(ctx context.Context, kind model.CatalogKind, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, kind model.CatalogKind, productID string) (model.Product, error)
}
