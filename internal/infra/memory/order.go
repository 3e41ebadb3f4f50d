package memory

import (
	"context"
	"sort"
	"sync"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]model.Order
}

func NewOrderRepository(seed []model.Order) *OrderRepository {
	r := &OrderRepository{orders: make(map[string]model.Order, len(seed))}
	for _, o := range seed {
		r.orders[o.ID] = cloneOrder(o)
	}
	return r
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if f.Catalog != "" && o.Catalog != f.Catalog {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PlacedBy != "" && o.PlacedBy != f.PlacedBy {
			continue
		}
		out = append(out, cloneOrder(o))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *OrderRepository) Create(ctx context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return repo.ErrConflict
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.orders[orderID] = o
	return nil
}

func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, userID string, key string) (model.Order, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.IdempotencyKey != "" && o.PlacedBy == userID && o.IdempotencyKey == key {
			return cloneOrder(o), true, nil
		}
	}
	return model.Order{}, false, nil
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}
