package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// カタログに存在しない商品IDが渡された
	ErrInvalidProduct = errors.New("invalid product")
	// 1明細の上限を超える、または増減幅が大きすぎる
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// 1明細あたりの数量上限
const MaxLineQuantity = 9999

// セッションに保存するカートの形
type CartSnapshot struct {
	Catalog CatalogKind    `json:"catalog"`
	Lines   map[string]int `json:"lines"`
}

// 1セッション・1カタログの数量管理。
// 数量0の明細は持たない（0になったら削除）。
type Cart struct {
	catalog  CatalogKind
	products map[string]Product
	order    []string
	lines    map[string]int
	total    int
}

func NewCart(kind CatalogKind, products []Product) *Cart {
	c := &Cart{}
	c.bind(kind, products)
	return c
}

func (c *Cart) bind(kind CatalogKind, products []Product) {
	c.catalog = kind
	c.products = make(map[string]Product, len(products))
	c.order = make([]string, 0, len(products))
	for _, p := range products {
		if _, dup := c.products[p.ID]; dup {
			continue
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	c.lines = map[string]int{}
	c.total = 0
}

func (c *Cart) Catalog() CatalogKind {
	return c.catalog
}

// 数量をdeltaだけ増減する。0未満にはならず、0なら明細ごと消す。
// 上限を超える変更は何もせずErrInvalidQuantityを返す。
func (c *Cart) SetQuantity(productID string, delta int) error {
	if _, ok := c.products[productID]; !ok {
		return ErrInvalidProduct
	}
	if delta > MaxLineQuantity || delta < -MaxLineQuantity {
		return ErrInvalidQuantity
	}

	next := c.lines[productID] + delta
	if next > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if next <= 0 {
		delete(c.lines, productID)
	} else {
		c.lines[productID] = next
	}

	c.recompute()
	return nil
}

func (c *Cart) Quantity(productID string) int {
	return c.lines[productID]
}

func (c *Cart) TotalItemCount() int {
	return c.total
}

func (c *Cart) IsEmpty() bool {
	return c.total == 0
}

func (c *Cart) Clear() {
	c.lines = map[string]int{}
	c.total = 0
}

// カタログを切り替える。前のカタログの数量は必ず捨てる。
func (c *Cart) Rebind(kind CatalogKind, products []Product) {
	c.bind(kind, products)
}

// 明細のコピーを返す
func (c *Cart) Items() map[string]int {
	out := make(map[string]int, len(c.lines))
	for id, q := range c.lines {
		out[id] = q
	}
	return out
}

// カタログ順の明細
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.lines))
	for _, id := range c.order {
		q, ok := c.lines[id]
		if !ok {
			continue
		}
		out = append(out, CartLine{Product: c.products[id], Quantity: q})
	}
	return out
}

// Σ(数量 × 単価)
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines() {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (c *Cart) Snapshot() CartSnapshot {
	return CartSnapshot{Catalog: c.catalog, Lines: c.Items()}
}

// スナップショットから復元する。
// 別カタログ・未知の商品・0以下の数量は捨て、上限超えは上限に丸める。
func (c *Cart) Restore(s CartSnapshot) {
	c.Clear()
	if s.Catalog != c.catalog {
		return
	}
	for id, q := range s.Lines {
		if _, ok := c.products[id]; !ok || q <= 0 {
			continue
		}
		c.lines[id] = min(q, MaxLineQuantity)
	}
	c.recompute()
}

func (c *Cart) recompute() {
	total := 0
	for _, q := range c.lines {
		total += q
	}
	c.total = total
}
