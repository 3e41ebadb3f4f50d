package model

// どのカタログに紐づくか（小売 / 卸売）
type CatalogKind string

const (
	CatalogConsumer CatalogKind = "consumer"
	//卸売（B2B）
	CatalogMerchant CatalogKind = "merchant"
)

func (k CatalogKind) Valid() bool {
	switch k {
	case CatalogConsumer, CatalogMerchant:
		return true
	default:
		return false
	}
}

// 商品カテゴリ
type Category string

const (
	CategoryDry    Category = "dry"
	CategoryOil    Category = "oil"
	CategorySnacks Category = "snacks"
	CategoryDrinks Category = "drinks"
	CategoryFresh  Category = "fresh"
	CategorySpices Category = "spices"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDry, CategoryOil, CategorySnacks, CategoryDrinks, CategoryFresh, CategorySpices:
		return true
	default:
		return false
	}
}

// 注文明細のアイコン分類に変換する
func (c Category) IconType() IconType {
	switch c {
	case CategoryDry:
		return IconSugar
	case CategorySnacks:
		return IconChips
	case CategoryFresh:
		return IconEggs
	case CategoryOil:
		return IconOil
	default:
		return IconGeneral
	}
}
