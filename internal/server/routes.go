package server

import (
	"net/http"

	"zajil/internal/handler"
	"zajil/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Books        *handler.BookHandler
	Cart         *handler.CartHandler
	Orders       *handler.OrderHandler
	AdminOrders  *handler.AdminOrderHandler
	AdminCatalog *handler.AdminCatalogHandler
}

// RegisterRoutes は /api 以下を登録する。
// 全ルートでセッションとトークン（任意）を読み、authed/admin で必須にする。
func RegisterRoutes(e *echo.Echo, h Handlers, session echo.MiddlewareFunc, tokens middleware.Authenticator) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", session, middleware.TokenAuth(tokens, false))
	authed := api.Group("", middleware.RequireUser())
	admin := api.Group("/admin", middleware.RequireUser(), middleware.AdminRoleGuard())

	h.Auth.RegisterRoutes(api, authed)
	h.Books.RegisterRoutes(api)
	h.Cart.RegisterRoutes(api)
	h.Orders.RegisterRoutes(api, authed)
	h.AdminOrders.RegisterRoutes(admin)
	h.AdminCatalog.RegisterRoutes(admin)
}
