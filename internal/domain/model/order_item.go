package model

import "github.com/shopspring/decimal"

// 明細アイコンの分類
type IconType string

const (
	IconSugar   IconType = "sugar"
	IconChips   IconType = "chips"
	IconEggs    IconType = "eggs"
	IconOil     IconType = "oil"
	IconGeneral IconType = "general"
)

type OrderItem struct {
	//DB用の連番（明細IDは注文ごとに重複しうる）
	RowID    int64               `gorm:"primaryKey;autoIncrement" yaml:"-" json:"-"`
	OrderID  string              `gorm:"type:varchar(64);not null;index" yaml:"-" json:"-"`
	ID       string              `gorm:"type:varchar(64);not null" yaml:"id" json:"id"`
	Name     string              `gorm:"type:varchar(255);not null" yaml:"name" json:"name"`
	Quantity int                 `gorm:"not null" yaml:"quantity" json:"quantity"`
	Unit     string              `gorm:"type:varchar(50)" yaml:"unit" json:"unit"`
	IconType IconType            `gorm:"type:varchar(20);not null" yaml:"icon_type" json:"icon_type"`
	Price    decimal.NullDecimal `gorm:"type:numeric(12,2)" yaml:"-" json:"price"`
}
