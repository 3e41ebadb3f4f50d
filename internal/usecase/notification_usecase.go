package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

type NotificationUsecase struct {
	notifications repo.NotificationRepository
}

func NewNotificationUsecase(notifications repo.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications}
}

type NotificationListOutput struct {
	Items  []model.Notification `json:"items"`
	Unread int                  `json:"unread"`
}

func (u *NotificationUsecase) List(ctx context.Context) (NotificationListOutput, error) {
	items, err := u.notifications.List(ctx)
	if err != nil {
		return NotificationListOutput{}, dbError(err)
	}

	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	return NotificationListOutput{Items: items, Unread: unread}, nil
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, notificationID string) error {
	if strings.TrimSpace(notificationID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.notifications.MarkRead(ctx, notificationID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return dbError(err)
	}
	return nil
}
