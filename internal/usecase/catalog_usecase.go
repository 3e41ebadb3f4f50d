package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

type CatalogUsecase struct {
	catalogs repo.CatalogRepository
}

// DI
func NewCatalogUsecase(catalogs repo.CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{catalogs: catalogs}
}

type ProductListOutput struct {
	Catalog model.CatalogKind `json:"catalog"`
	Items   []model.Product   `json:"items"`
	Total   int               `json:"total"`
}

func (u *CatalogUsecase) List(ctx context.Context, kind model.CatalogKind, category string) (ProductListOutput, error) {
	if !kind.Valid() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid catalog")
	}

	q := repo.ProductListQuery{}
	if c := strings.TrimSpace(category); c != "" {
		cat := model.Category(c)
		if !cat.Valid() {
			return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		q.Category = cat
	}

	items, err := u.catalogs.List(ctx, kind, q)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductListOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ProductListOutput{}, dbError(err)
	}

	return ProductListOutput{Catalog: kind, Items: items, Total: len(items)}, nil
}

func (u *CatalogUsecase) Get(ctx context.Context, kind model.CatalogKind, productID string) (model.Product, error) {
	if !kind.Valid() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid catalog")
	}
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.catalogs.FindByID(ctx, kind, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, dbError(err)
	}
	return p, nil
}
