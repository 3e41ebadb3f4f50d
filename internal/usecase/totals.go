package usecase

import (
	"localmarket/internal/domain/model"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// チェックアウト画面の金額の出し方
type TotalsPolicy interface {
	Compute(cart *model.Cart) Totals
}

// カタログごとの金額表
type AmountTable map[model.CatalogKind]decimal.Decimal

func (t AmountTable) get(kind model.CatalogKind) decimal.Decimal {
	if v, ok := t[kind]; ok {
		return v
	}
	return decimal.Zero
}

type computedTotals struct {
	fees AmountTable
}

// 小計はカートから、配送料はカタログごとの固定額
func NewComputedTotals(fees AmountTable) TotalsPolicy {
	return &computedTotals{fees: fees}
}

func (p *computedTotals) Compute(cart *model.Cart) Totals {
	sub := cart.Subtotal()
	fee := p.fees.get(cart.Catalog())
	return Totals{Subtotal: sub, DeliveryFee: fee, Total: sub.Add(fee)}
}

type fixedTotals struct {
	subtotals AmountTable
	fees      AmountTable
}

// カートの中身に関係なく決まった金額を出す（デモ表示と同じ）
func NewFixedTotals(subtotals AmountTable, fees AmountTable) TotalsPolicy {
	return &fixedTotals{subtotals: subtotals, fees: fees}
}

func (p *fixedTotals) Compute(cart *model.Cart) Totals {
	sub := p.subtotals.get(cart.Catalog())
	fee := p.fees.get(cart.Catalog())
	return Totals{Subtotal: sub, DeliveryFee: fee, Total: sub.Add(fee)}
}
