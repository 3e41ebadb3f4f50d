package handler

import (
	"net/http"

	"localmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /catalogs の公開API
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// 公開カタログのルートを登録
func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/catalogs/:kind/products", h.list)
	e.GET("/catalogs/:kind/products/:id", h.detail)
}

func (h *CatalogHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), catalogParam(c), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) detail(c echo.Context) error {
	p, err := h.uc.Get(c.Request().Context(), catalogParam(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
