package model

import "time"

type Role string

const (
	RoleMerchant Role = "MERCHANT"
	RoleConsumer Role = "CONSUMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMerchant, RoleConsumer:
		return true
	default:
		return false
	}
}

// ロールごとの買い物カタログ
func (r Role) Catalog() CatalogKind {
	switch r {
	case RoleMerchant:
		return CatalogMerchant
	case RoleConsumer:
		return CatalogConsumer
	default:
		panic("unknown role: " + string(r))
	}
}

// 店舗オーナーだけが持つ情報
type MerchantDetails struct {
	ShopName    string `yaml:"shop_name" json:"shop_name"`
	WorkerCount string `yaml:"worker_count" json:"worker_count,omitempty"`
	//画像アップロードは行わず参照文字列だけ保持
	ShopImage   string `yaml:"shop_image" json:"shop_image,omitempty"`
}

type UserProfile struct {
	ID      string `yaml:"-" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Phone   string `yaml:"-" json:"phone"`
	Role    Role   `yaml:"role" json:"role"`
	Address string `yaml:"address" json:"address,omitempty"`
	Age     string `yaml:"age" json:"age,omitempty"`

	//MERCHANTのときだけ入る
	Merchant *MerchantDetails `yaml:"merchant" json:"merchant,omitempty"`

	//平文は保存しない
	PasswordHash string `yaml:"-" json:"-"`
}

func (u UserProfile) IsMerchant() bool {
	return u.Role == RoleMerchant
}

// ログイン中の状態（現在のユーザー＋カート）
type Session struct {
	ID        string       `json:"id"`
	User      UserProfile  `json:"user"`
	Cart      CartSnapshot `json:"cart"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
