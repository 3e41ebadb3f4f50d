package handler

import (
	"errors"
	"net/http"

	auth "localmarket/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	loginUC    *auth.LoginUsecase        // ログインusecase
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	sessionUC  *auth.SessionUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	loginUC *auth.LoginUsecase,
	registerUC *auth.RegisterUserUsecase,
	sessionUC *auth.SessionUsecase,
) *AuthHandler {
	return &AuthHandler{
		loginUC:    loginUC,
		registerUC: registerUC,
		sessionUC:  sessionUC,
	}
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Role       string `json:"role"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerMerchantRequest struct {
	Name        string `json:"name"`
	ShopName    string `json:"shop_name"`
	Phone       string `json:"phone"`
	Age         string `json:"age"`
	Address     string `json:"address"`
	Password    string `json:"password"`
	WorkerCount string `json:"worker_count"`
	ShopImage   string `json:"shop_image"`
}

type registerConsumerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Age      string `json:"age"`
}

// 認証不要のルートと、ログイン後のルートを登録
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, guards ...echo.MiddlewareFunc) {
	e.POST("/auth/login", h.login)
	e.POST("/auth/register/merchant", h.registerMerchant)
	e.POST("/auth/register/consumer", h.registerConsumer)

	g := e.Group("/auth", guards...)
	g.POST("/logout", h.logout)
	g.GET("/me", h.me)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Role:       req.Role,
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) registerMerchant(c echo.Context) error {
	var req registerMerchantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.registerUC.RegisterMerchant(c.Request().Context(), auth.RegisterMerchantInput{
		Name:        req.Name,
		ShopName:    req.ShopName,
		Phone:       req.Phone,
		Age:         req.Age,
		Address:     req.Address,
		Password:    req.Password,
		WorkerCount: req.WorkerCount,
		ShopImage:   req.ShopImage,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) registerConsumer(c echo.Context) error {
	var req registerConsumerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.registerUC.RegisterConsumer(c.Request().Context(), auth.RegisterConsumerInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Address:  req.Address,
		Age:      req.Age,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.sessionUC.Logout(c.Request().Context(), s.ID)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	return c.JSON(http.StatusOK, s.User)
}

func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingField):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidRole):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid role"})
	case errors.Is(err, auth.ErrSessionNotFound):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	default:
		return writeError(c, err)
	}
}
