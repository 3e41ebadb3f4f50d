package handler

import (
	"net/http"

	"localmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	cartUC     *usecase.CartUsecase
	checkoutUC *usecase.CheckoutUsecase
}

// DI
func NewCartHandler(cartUC *usecase.CartUsecase, checkoutUC *usecase.CheckoutUsecase) *CartHandler {
	return &CartHandler{cartUC: cartUC, checkoutUC: checkoutUC}
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

type ConfirmCheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// 同じ注文の二重送信を防ぐキー
const headerIdempotencyKey = "X-Idempotency-Key"

// /cart/:kind を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, guards ...echo.MiddlewareFunc) {
	g := e.Group("/cart", guards...)

	g.GET("/:kind", h.getCart)
	g.PATCH("/:kind/items/:productId", h.changeQuantity)
	g.DELETE("/:kind", h.clearCart)
	g.GET("/:kind/checkout", h.checkoutSummary)
	g.POST("/:kind/checkout", h.confirmCheckout)
}

func (h *CartHandler) getCart(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.cartUC.Get(c.Request().Context(), s.ID, catalogParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) changeQuantity(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ChangeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.cartUC.ChangeQuantity(c.Request().Context(), s.ID, catalogParam(c), c.Param("productId"), req.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clearCart(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.cartUC.Clear(c.Request().Context(), s.ID, catalogParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) checkoutSummary(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.checkoutUC.Summary(c.Request().Context(), s.ID, catalogParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) confirmCheckout(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ConfirmCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.checkoutUC.Confirm(c.Request().Context(), s.ID, catalogParam(c), usecase.ConfirmCheckoutInput{
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return writeError(c, err)
	}

	//再送は200、新規は201
	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, out)
}
