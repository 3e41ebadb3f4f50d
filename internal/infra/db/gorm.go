package db

import (
	"context"
	"errors"
	"fmt"

	"localmarket/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("db: empty dsn")
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Order{},
		&model.OrderItem{},
		&model.Notification{},
		&model.AuditLog{},
	)
}

// まだ無いseedだけ入れる（再起動しても重複しない）
func Seed(ctx context.Context, db *gorm.DB, orders []model.Order, notifications []model.Notification) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			var count int64
			if err := tx.Model(&model.Order{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&o).Error; err != nil {
				return fmt.Errorf("db: seed order %s: %w", o.ID, err)
			}
		}

		//先頭が最新なので後ろから番号を振る
		for i := len(notifications) - 1; i >= 0; i-- {
			n := notifications[i]
			n.Seq = int64(len(notifications) - i)

			var count int64
			if err := tx.Model(&model.Notification{}).Where("id = ?", n.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&n).Error; err != nil {
				return fmt.Errorf("db: seed notification %s: %w", n.ID, err)
			}
		}
		return nil
	})
}
