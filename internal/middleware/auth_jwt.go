package middleware

import (
	"errors"
	"net/http"
	"strings"

	"localmarket/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey    = "user_id"    // string
	CtxSessionIDKey = "session_id" // string
	CtxUserRoleKey  = "user_role"  // string
	CtxSessionKey   = "session"    // model.Session
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !setClaims(c, cfg) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}

// トークンが無い・無効でも通す。有効なときだけcontextに入れる
func OptionalAuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			setClaims(c, cfg)
			return next(c)
		}
	}
}

func setClaims(c echo.Context, cfg config.Config) bool {
	//Authorizationヘッダを取得
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return false
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return false
	}

	//JWTをパースして検証する（expもここで見る）
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return false
	}

	//claimsを取り出す
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	userID, err := parseString(claims["sub"])
	if err != nil || userID == "" {
		return false
	}
	sessionID, err := parseString(claims["sid"])
	if err != nil || sessionID == "" {
		return false
	}
	//roleを取り出す（MERCHANT/CONSUMER）
	role, err := parseString(claims["role"])
	if err != nil || role == "" {
		return false
	}

	//contextへ保存
	c.Set(CtxUserIDKey, userID)
	c.Set(CtxSessionIDKey, sessionID)
	c.Set(CtxUserRoleKey, role)
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
