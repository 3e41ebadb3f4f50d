package handler

import (
	"log/slog"
	"net/http"

	"localmarket/internal/domain/model"
	"localmarket/internal/middleware"
	"localmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラーをHTTPに変換
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			slog.ErrorContext(c.Request().Context(), "request failed",
				slog.Int("status", he.Status),
				slog.String("error", err.Error()),
			)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	slog.ErrorContext(c.Request().Context(), "unexpected error", slog.String("error", err.Error()))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// SessionGuardが入れたセッション
func getSessionFromContext(c echo.Context) (model.Session, bool) {
	s, ok := c.Get(middleware.CtxSessionKey).(model.Session)
	if !ok || s.ID == "" {
		return model.Session{}, false
	}
	return s, true
}

func catalogParam(c echo.Context) model.CatalogKind {
	return model.CatalogKind(c.Param("kind"))
}
