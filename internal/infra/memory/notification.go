package memory

import (
	"context"
	"sort"
	"sync"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]model.Notification
	seq   int64
}

// seedは先頭が最新として扱う
func NewNotificationRepository(seed []model.Notification) *NotificationRepository {
	r := &NotificationRepository{items: make(map[string]model.Notification, len(seed))}
	for i := len(seed) - 1; i >= 0; i-- {
		n := seed[i]
		r.seq++
		n.Seq = r.seq
		r.items[n.ID] = n
	}
	return r
}

func (r *NotificationRepository) List(ctx context.Context) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Notification, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	return out, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[n.ID]; exists {
		return repo.ErrConflict
	}
	r.seq++
	n.Seq = r.seq
	r.items[n.ID] = n
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[notificationID]
	if !ok {
		return repo.ErrNotFound
	}
	n.IsRead = true
	r.items[notificationID] = n
	return nil
}
