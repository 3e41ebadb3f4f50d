package middleware

import (
	"net/http"

	"localmarket/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// SessionGuardの後に置く。セッションのroleがMERCHANTかどうかを確認します。
func MerchantOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := c.Get(CtxSessionKey).(model.Session)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//CONSUMERは拒否、MERCHANTだけ許可
			if !s.User.IsMerchant() {
				return c.JSON(http.StatusForbidden, errorJSON("merchant only"))
			}

			return next(c)
		}
	}
}
