package server

import (
	"localmarket/internal/config"
	"localmarket/internal/handler"
	"localmarket/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Navigation *handler.NavigationHandler
	Catalog    *handler.CatalogHandler
	Auth       *handler.AuthHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Merchant   *handler.MerchantHandler
}

// 公開 → ログイン必須 → 店舗専用 の順に登録
func RegisterRoutes(e *echo.Echo, cfg config.Config, sessions middleware.SessionReader, h Handlers) {
	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.SessionGuard(sessions),
	}
	merchant := append(append([]echo.MiddlewareFunc{}, authed...), middleware.MerchantOnly())

	h.Navigation.RegisterRoutes(e, middleware.OptionalAuthJWT(cfg))
	h.Catalog.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, authed...)

	h.Cart.RegisterRoutes(e, authed...)
	h.Order.RegisterRoutes(e, authed...)

	h.Merchant.RegisterRoutes(e, merchant...)
}
