package middleware

import (
	"zajil/internal/apperr"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey     = "user_id"     // int64
	CtxUserRoleKey   = "user_role"   // string（ADMIN/USER）
	CtxSessionKeyKey = "session_key" // string
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorJSON(c echo.Context, err error) error {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal(err).(*apperr.Error)
	}
	return c.JSON(e.Status(), errorResponse{Error: e.Message, Code: string(e.Kind)})
}

// ログイン中ならユーザーIDを返す
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

// Sessionミドルウェアが入れたキー
func SessionKey(c echo.Context) string {
	s, _ := c.Get(CtxSessionKeyKey).(string)
	return s
}
