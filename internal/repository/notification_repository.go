package repository

import (
	"context"

	"localmarket/internal/domain/model"
)

type NotificationRepository interface {
	//新しい順
	List(ctx context.Context) ([]model.Notification, error)
	Create(ctx context.Context, n model.Notification) error
	MarkRead(ctx context.Context, notificationID string) error
}
