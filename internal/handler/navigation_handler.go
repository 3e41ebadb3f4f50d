package handler

import (
	"net/http"

	"localmarket/internal/domain/model"
	"localmarket/internal/middleware"
	"localmarket/internal/navigation"

	"github.com/labstack/echo/v4"
)

// 画面遷移の判定。トークンは任意
type NavigationHandler struct {
	sessions middleware.SessionReader
}

func NewNavigationHandler(sessions middleware.SessionReader) *NavigationHandler {
	return &NavigationHandler{sessions: sessions}
}

// optionalAuthにはOptionalAuthJWTを渡す
func (h *NavigationHandler) RegisterRoutes(e *echo.Echo, optionalAuth echo.MiddlewareFunc) {
	e.GET("/healthz", h.healthz)
	e.GET("/navigation", h.resolve, optionalAuth)
	e.GET("/navigation/routes", h.routes)
}

func (h *NavigationHandler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *NavigationHandler) resolve(c echo.Context) error {
	return c.JSON(http.StatusOK, navigation.Resolve(c.QueryParam("path"), h.currentUser(c)))
}

func (h *NavigationHandler) routes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"items": navigation.Routes()})
}

// 無効・期限切れのトークンは未ログイン扱い
func (h *NavigationHandler) currentUser(c echo.Context) *model.UserProfile {
	sid, ok := c.Get(middleware.CtxSessionIDKey).(string)
	if !ok || sid == "" {
		return nil
	}
	s, err := h.sessions.Current(c.Request().Context(), sid)
	if err != nil {
		return nil
	}
	if uid, _ := c.Get(middleware.CtxUserIDKey).(string); uid != s.User.ID {
		return nil
	}
	return &s.User
}
