package navigation

import (
	"strings"

	"localmarket/internal/domain/model"
)

// リダイレクトを辿る上限
const maxRedirects = 8

type Result struct {
	Requested   string            `json:"requested"`
	Path        string            `json:"path"`
	Screen      string            `json:"screen"`
	Params      map[string]string `json:"params,omitempty"`
	Redirects   []string          `json:"redirects,omitempty"`
	AutoAdvance *AutoAdvance      `json:"auto_advance,omitempty"`
	//ログイン中のみ
	Targets *Targets `json:"targets,omitempty"`
}

// ロールで変わるボタンの行き先
type Targets struct {
	Home   string `json:"home"`
	Search string `json:"search"`
}

// Resolve は要求パスを、ガードを通る画面に着くまでリダイレクトして決める。
// userがnilなら未ログイン。未知のパスはスプラッシュへ。
func Resolve(path string, user *model.UserProfile) Result {
	res := Result{Requested: path}

	current := normalize(path)
	for i := 0; i <= maxRedirects; i++ {
		r, params, ok := lookup(current)
		if !ok {
			res.Redirects = append(res.Redirects, current)
			current = PathSplash
			continue
		}
		if !r.Guard.allows(user) {
			res.Redirects = append(res.Redirects, current)
			current = r.Fallback
			continue
		}

		res.Path = current
		res.Screen = r.Screen
		if len(params) > 0 {
			res.Params = params
		}
		res.AutoAdvance = r.AutoAdvance
		res.Targets = targetsFor(user)
		return res
	}

	//辿り切れなかった
	res.Path = PathSplash
	res.Screen = "splash"
	res.Targets = targetsFor(user)
	return res
}

func targetsFor(user *model.UserProfile) *Targets {
	if user == nil || !user.Role.Valid() {
		return nil
	}
	return &Targets{Home: HomeTarget(user.Role), Search: SearchTarget(user.Role)}
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathSplash
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathSplash
		}
	}
	return path
}

// ホーム画面のメインボタンの行き先
func HomeTarget(role model.Role) string {
	switch role {
	case model.RoleMerchant:
		return "/merchant/dashboard"
	case model.RoleConsumer:
		return "/consumer/shop"
	default:
		panic("unknown role: " + string(role))
	}
}

// 下部ナビの検索ボタンの行き先
func SearchTarget(role model.Role) string {
	switch role {
	case model.RoleMerchant:
		return "/merchant/market"
	case model.RoleConsumer:
		return "/consumer/shop"
	default:
		panic("unknown role: " + string(role))
	}
}

func CheckoutPath(kind model.CatalogKind) string {
	switch kind {
	case model.CatalogMerchant:
		return "/merchant/checkout"
	case model.CatalogConsumer:
		return "/consumer/checkout"
	default:
		panic("unknown catalog: " + string(kind))
	}
}

// 注文確定後の画面
func SuccessPath(kind model.CatalogKind) string {
	switch kind {
	case model.CatalogMerchant:
		return "/merchant/order-success"
	case model.CatalogConsumer:
		return "/consumer/success"
	default:
		panic("unknown catalog: " + string(kind))
	}
}
