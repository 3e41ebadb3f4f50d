package navigation

import (
	"strings"

	"localmarket/internal/domain/model"
)

// 画面の入場条件
type Guard int

const (
	GuardNone Guard = iota
	//ログイン済みなら誰でも
	GuardAuth
	GuardMerchant
)

const (
	PathSplash    = "/"
	PathAuthStart = "/auth-start"
	PathHome      = "/home"
)

// スプラッシュから自動で進むまでの時間
const SplashDelayMS = 2000

func (g Guard) String() string {
	switch g {
	case GuardAuth:
		return "auth"
	case GuardMerchant:
		return "merchant"
	default:
		return "none"
	}
}

func (g Guard) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

type AutoAdvance struct {
	To      string `json:"to"`
	DelayMS int    `json:"delay_ms"`
}

type Route struct {
	Pattern string `json:"pattern"`
	Screen  string `json:"screen"`
	Guard   Guard  `json:"guard"`
	//ガードで弾かれたときの行き先
	Fallback    string       `json:"fallback,omitempty"`
	AutoAdvance *AutoAdvance `json:"auto_advance,omitempty"`
}

var routes = []Route{
	{Pattern: "/", Screen: "splash", AutoAdvance: &AutoAdvance{To: PathAuthStart, DelayMS: SplashDelayMS}},
	{Pattern: "/auth-start", Screen: "auth_start"},
	{Pattern: "/login", Screen: "login"},
	{Pattern: "/role-select", Screen: "role_select"},
	{Pattern: "/register/merchant", Screen: "register_merchant"},
	{Pattern: "/register/consumer", Screen: "register_consumer"},

	{Pattern: "/home", Screen: "home", Guard: GuardAuth, Fallback: PathAuthStart},
	{Pattern: "/profile", Screen: "profile", Guard: GuardAuth, Fallback: PathAuthStart},

	{Pattern: "/merchant/dashboard", Screen: "merchant_dashboard", Guard: GuardMerchant, Fallback: PathHome},
	{Pattern: "/merchant/market", Screen: "merchant_market"},
	{Pattern: "/merchant/checkout", Screen: "merchant_checkout"},
	{Pattern: "/merchant/notifications", Screen: "merchant_notifications"},
	{Pattern: "/merchant/orders", Screen: "merchant_orders"},
	{Pattern: "/merchant/invoices", Screen: "merchant_invoices"},
	{Pattern: "/order/:id", Screen: "order_details"},
	{Pattern: "/merchant/order-success", Screen: "merchant_order_success"},

	{Pattern: "/consumer/shop", Screen: "consumer_shop"},
	{Pattern: "/consumer/checkout", Screen: "consumer_checkout"},
	{Pattern: "/consumer/success", Screen: "consumer_success"},
}

// 全ルートのコピー
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// パターンに一致すればパラメータを返す
func match(pattern string, path string) (map[string]string, bool) {
	pp := splitPath(pattern)
	sp := splitPath(path)
	if len(pp) != len(sp) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range pp {
		if strings.HasPrefix(seg, ":") {
			if sp[i] == "" {
				return nil, false
			}
			params[seg[1:]] = sp[i]
			continue
		}
		if seg != sp[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func lookup(path string) (Route, map[string]string, bool) {
	for _, r := range routes {
		if params, ok := match(r.Pattern, path); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func (g Guard) allows(user *model.UserProfile) bool {
	switch g {
	case GuardNone:
		return true
	case GuardAuth:
		return user != nil
	case GuardMerchant:
		return user != nil && user.IsMerchant()
	default:
		return false
	}
}
