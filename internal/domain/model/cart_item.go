package model

import "github.com/shopspring/decimal"

// カートの明細（数量は常に1以上）
type CartLine struct {
	Product  Product
	Quantity int
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
