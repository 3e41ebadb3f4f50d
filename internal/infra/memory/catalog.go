package memory

import (
	"context"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

// seedから作る読み取り専用カタログ
type CatalogRepository struct {
	catalogs map[model.CatalogKind][]model.Product
}

func NewCatalogRepository(catalogs map[model.CatalogKind][]model.Product) *CatalogRepository {
	copied := make(map[model.CatalogKind][]model.Product, len(catalogs))
	for kind, products := range catalogs {
		copied[kind] = append([]model.Product(nil), products...)
	}
	return &CatalogRepository{catalogs: copied}
}

func (r *CatalogRepository) List(ctx context.Context, kind model.CatalogKind, q repo.ProductListQuery) ([]model.Product, error) {
	products, ok := r.catalogs[kind]
	if !ok {
		return []model.Product{}, repo.ErrNotFound
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *CatalogRepository) FindByID(ctx context.Context, kind model.CatalogKind, productID string) (model.Product, error) {
	for _, p := range r.catalogs[kind] {
		if p.ID == productID {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}
