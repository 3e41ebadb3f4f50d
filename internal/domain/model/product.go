package model

import "github.com/shopspring/decimal"

// カタログの商品（読み込み後は不変）
type Product struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Price       decimal.Decimal `yaml:"price" json:"price"`
	Category    Category        `yaml:"category" json:"category"`
	PackageSize string          `yaml:"package_size" json:"package_size,omitempty"`
	Image       string          `yaml:"image" json:"image,omitempty"`
}
