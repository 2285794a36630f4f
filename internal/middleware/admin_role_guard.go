package middleware

import (
	"zajil/internal/apperr"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleがADMINかどうかを確認します。
// TokenAuth(required) の後ろに置く
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return errorJSON(c, apperr.AuthFailed("Authentication credentials were not provided."))
			}

			//USERは拒否、ADMINだけ許可
			if role != RoleAdmin {
				return errorJSON(c, apperr.Forbidden("You do not have permission to perform this action."))
			}

			return next(c)
		}
	}
}
