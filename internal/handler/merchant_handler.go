package handler

import (
	"net/http"

	"localmarket/internal/infra/export"
	"localmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /merchant 配下（店舗オーナー専用）
type MerchantHandler struct {
	orderUC        *usecase.MerchantOrderUsecase
	notificationUC *usecase.NotificationUsecase
	reportUC       *usecase.ReportUsecase
}

func NewMerchantHandler(
	orderUC *usecase.MerchantOrderUsecase,
	notificationUC *usecase.NotificationUsecase,
	reportUC *usecase.ReportUsecase,
) *MerchantHandler {
	return &MerchantHandler{
		orderUC:        orderUC,
		notificationUC: notificationUC,
		reportUC:       reportUC,
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// guardsにはAuthJWT/SessionGuard/MerchantOnlyを渡す
func (h *MerchantHandler) RegisterRoutes(e *echo.Echo, guards ...echo.MiddlewareFunc) {
	g := e.Group("/merchant", guards...)

	g.GET("/dashboard", h.dashboard)

	g.GET("/orders", h.listOrders)
	g.GET("/orders/export", h.exportOrders)
	g.PATCH("/orders/:id/status", h.updateOrderStatus)
	g.GET("/orders/:id/history", h.orderHistory)

	g.GET("/notifications", h.listNotifications)
	g.PATCH("/notifications/:id/read", h.markNotificationRead)

	g.GET("/invoices", h.invoices)
	g.GET("/invoices/export", h.exportInvoices)
}

func (h *MerchantHandler) dashboard(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.reportUC.Dashboard(c.Request().Context(), s.User)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MerchantHandler) listOrders(c echo.Context) error {
	out, err := h.orderUC.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MerchantHandler) updateOrderStatus(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	o, err := h.orderUC.UpdateStatus(c.Request().Context(), s.User.ID, c.Param("id"), usecase.UpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *MerchantHandler) orderHistory(c echo.Context) error {
	out, err := h.orderUC.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MerchantHandler) exportOrders(c echo.Context) error {
	out, err := h.orderUC.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}

	setDownloadHeaders(c, "orders.xlsx")
	if err := export.WriteOrders(c.Response(), out.Items); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to write excel file"})
	}
	return nil
}

func (h *MerchantHandler) listNotifications(c echo.Context) error {
	out, err := h.notificationUC.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MerchantHandler) markNotificationRead(c echo.Context) error {
	if err := h.notificationUC.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MerchantHandler) invoices(c echo.Context) error {
	out, err := h.reportUC.Invoices(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MerchantHandler) exportInvoices(c echo.Context) error {
	out, err := h.reportUC.Invoices(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	setDownloadHeaders(c, "invoices.xlsx")
	if err := export.WriteInvoices(c.Response(), out.Invoices); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to write excel file"})
	}
	return nil
}

func setDownloadHeaders(c echo.Context, filename string) {
	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	h.Set(echo.HeaderContentType, export.ContentTypeXLSX)
	c.Response().WriteHeader(http.StatusOK)
}
