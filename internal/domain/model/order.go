package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusDelivered OrderStatus = "delivered"
)

// 終端ステータスからの変更・飛び越し
var ErrInvalidTransition = errors.New("invalid status transition")

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusRejected, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// pending → confirmed / rejected、confirmed → delivered のみ
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusRejected
	case OrderStatusConfirmed:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusRejected || s == OrderStatusDelivered
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentVisa PaymentMethod = "visa"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentVisa
}

type Order struct {
	ID              string              `gorm:"primaryKey;type:varchar(64)" yaml:"id" json:"id"`
	CustomerName    string              `gorm:"type:varchar(255);not null" yaml:"customer_name" json:"customer_name"`
	CustomerAddress string              `gorm:"type:varchar(255);not null" yaml:"customer_address" json:"customer_address"`
	Timestamp       time.Time           `gorm:"not null;index" yaml:"timestamp" json:"timestamp"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;index" yaml:"status" json:"status"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;references:ID" yaml:"items" json:"items"`
	TotalAmount     decimal.NullDecimal `gorm:"type:numeric(12,2)" yaml:"total_amount" json:"total_amount"`
	Catalog         CatalogKind         `gorm:"type:varchar(20);not null;default:'consumer';index" yaml:"catalog" json:"catalog"`
	PaymentMethod   PaymentMethod       `gorm:"type:varchar(20)" yaml:"payment_method" json:"payment_method,omitempty"`
	PlacedBy        string              `gorm:"type:varchar(64);index" yaml:"-" json:"placed_by,omitempty"`
	IdempotencyKey  string              `gorm:"type:varchar(255);index" yaml:"-" json:"-"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" yaml:"-" json:"-"`
}

func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
