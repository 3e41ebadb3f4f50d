package seed

import (
	_ "embed"
	"fmt"

	"localmarket/internal/domain/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// 固定表示の合計（互換モード用）
type FixedTotal struct {
	Subtotal    decimal.Decimal `yaml:"subtotal"`
	DeliveryFee decimal.Decimal `yaml:"delivery_fee"`
}

// 起動時に一度だけ読む参照データ
type Data struct {
	Catalogs      map[model.CatalogKind][]model.Product `yaml:"catalogs"`
	Orders        []model.Order                         `yaml:"orders"`
	Notifications []model.Notification                  `yaml:"notifications"`
	LoginProfiles map[model.Role]model.UserProfile      `yaml:"login_profiles"`
	FixedTotals   map[model.CatalogKind]FixedTotal      `yaml:"fixed_totals"`
	Invoices      model.InvoiceSummary                  `yaml:"invoices"`
}

// 埋め込みのseed.yamlを読む
func Load() (Data, error) {
	return Parse(defaultSeed)
}

func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("seed: decode: %w", err)
	}
	if err := d.validate(); err != nil {
		return Data{}, err
	}
	return d, nil
}

func (d Data) validate() error {
	for _, kind := range []model.CatalogKind{model.CatalogConsumer, model.CatalogMerchant} {
		products, ok := d.Catalogs[kind]
		if !ok {
			return fmt.Errorf("seed: catalog %q is missing", kind)
		}

		seen := make(map[string]struct{}, len(products))
		for _, p := range products {
			if p.ID == "" {
				return fmt.Errorf("seed: %s: product without id", kind)
			}
			if _, dup := seen[p.ID]; dup {
				return fmt.Errorf("seed: %s: duplicate product id %q", kind, p.ID)
			}
			seen[p.ID] = struct{}{}

			if !p.Price.IsPositive() {
				return fmt.Errorf("seed: %s/%s: price must be positive", kind, p.ID)
			}
			if !p.Category.Valid() {
				return fmt.Errorf("seed: %s/%s: unknown category %q", kind, p.ID, p.Category)
			}
		}
	}

	for kind := range d.Catalogs {
		if !kind.Valid() {
			return fmt.Errorf("seed: unknown catalog %q", kind)
		}
	}

	for _, o := range d.Orders {
		if o.ID == "" {
			return fmt.Errorf("seed: order without id")
		}
		if !o.Status.Valid() {
			return fmt.Errorf("seed: order %s: unknown status %q", o.ID, o.Status)
		}
		if !o.Catalog.Valid() {
			return fmt.Errorf("seed: order %s: unknown catalog %q", o.ID, o.Catalog)
		}
		if o.TotalAmount.Valid && o.TotalAmount.Decimal.IsNegative() {
			return fmt.Errorf("seed: order %s: negative total", o.ID)
		}
	}

	for _, role := range []model.Role{model.RoleMerchant, model.RoleConsumer} {
		if _, ok := d.LoginProfiles[role]; !ok {
			return fmt.Errorf("seed: login profile for %s is missing", role)
		}
	}

	return nil
}
