package model

import "time"

type NotificationType string

const (
	NotificationOrder  NotificationType = "order"
	NotificationSystem NotificationType = "system"
)

// 店舗向けのお知らせ
type Notification struct {
	ID       string           `gorm:"primaryKey;type:varchar(64)" yaml:"id" json:"id"`
	Title    string           `gorm:"type:varchar(255);not null" yaml:"title" json:"title"`
	Subtitle string           `gorm:"type:varchar(255)" yaml:"subtitle" json:"subtitle"`
	//表示用の相対時刻
	Time     string           `gorm:"type:varchar(100)" yaml:"time" json:"time"`
	Type     NotificationType `gorm:"type:varchar(20);not null" yaml:"type" json:"type"`
	IsRead   bool             `gorm:"not null;default:false" yaml:"is_read" json:"is_read"`
	OrderID  string           `gorm:"type:varchar(64)" yaml:"order_id" json:"order_id,omitempty"`

	//並び順（新しいものが先）
	Seq       int64     `gorm:"not null;index" yaml:"-" json:"-"`
	CreatedAt time.Time `gorm:"not null" yaml:"-" json:"-"`
}
