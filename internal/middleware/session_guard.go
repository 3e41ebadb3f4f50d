package middleware

import (
	"context"
	"errors"
	"net/http"

	"localmarket/internal/domain/model"
	auth "localmarket/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// セッションを読む約束（auth.SessionUsecaseが満たす）
type SessionReader interface {
	Current(ctx context.Context, sessionID string) (model.Session, error)
}

// JWTのsidのセッションが生きているか確認。ログアウト後のトークンはここで弾く。
func SessionGuard(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたsession_idを取得する
			sessionID, ok := c.Get(CtxSessionIDKey).(string)
			if !ok || sessionID == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			userID, _ := c.Get(CtxUserIDKey).(string)

			s, err := sessions.Current(c.Request().Context(), sessionID)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			//別ユーザーのトークン
			if s.User.ID != userID {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxSessionKey, s)
			return next(c)
		}
	}
}
