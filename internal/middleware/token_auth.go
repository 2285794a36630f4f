package middleware

import (
	"context"
	"strings"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// トークンからユーザーを引く約束（auth.TokenService）
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*model.User, error)
}

// TokenAuth は "Authorization: Token <key>"（Bearerも可）を検証する。
// required=false ならヘッダが無いリクエストはゲストとして通す。
func TokenAuth(auth Authenticator, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, present := tokenFromRequest(c)
			if !present {
				if required {
					return errorJSON(c, apperr.AuthFailed("Authentication credentials were not provided."))
				}
				return next(c)
			}

			user, err := auth.Authenticate(c.Request().Context(), key)
			if err != nil {
				return errorJSON(c, err)
			}

			role := RoleUser
			if user.IsStaff {
				role = RoleAdmin
			}
			c.Set(CtxUserIDKey, user.ID)
			c.Set(CtxUserRoleKey, role)

			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) (string, bool) {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		//ブラウザのWebSocketはヘッダを付けられない
		if c.IsWebSocket() {
			if q := c.QueryParam("token"); q != "" {
				return q, true
			}
		}
		return "", false
	}

	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 {
		return "", true
	}
	if !strings.EqualFold(parts[0], "Token") && !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

// RequireUser は TokenAuth(optional) の後ろでログイン必須にする
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserID(c); !ok {
				return errorJSON(c, apperr.AuthFailed("Authentication credentials were not provided."))
			}
			return next(c)
		}
	}
}
