package repository

import (
	"context"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"

	"gorm.io/gorm"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) List(ctx context.Context) ([]model.Notification, error) {
	var items []model.Notification
	if err := r.db.WithContext(ctx).Order("seq desc").Find(&items).Error; err != nil {
		return []model.Notification{}, err
	}
	return items, nil
}

// seqは既存の最大値+1
func (r *NotificationGormRepository) Create(ctx context.Context, n model.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Notification{}).Where("id = ?", n.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return repo.ErrConflict
		}

		var maxSeq int64
		if err := tx.Model(&model.Notification{}).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		n.Seq = maxSeq + 1
		return tx.Create(&n).Error
	})
}

func (r *NotificationGormRepository) MarkRead(ctx context.Context, notificationID string) error {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", notificationID).
		Update("is_read", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
