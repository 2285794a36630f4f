package handler

import (
	"net/http"

	"zajil/internal/middleware"
	"zajil/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type checkoutResponse struct {
	Message string              `json:"message"`
	OrderID string              `json:"order_id"`
	Order   usecase.OrderOutput `json:"order"`
}

// checkoutはゲストも可。注文履歴はログイン必須
func (h *OrderHandler) RegisterRoutes(api *echo.Group, authed *echo.Group) {
	api.POST("/checkout", h.checkout)

	authed.GET("/orders", h.list)
	authed.GET("/orders/:id", h.detail)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req usecase.CheckoutInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	var userID *int64
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	out, err := h.uc.Checkout(c.Request().Context(), middleware.SessionKey(c), userID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, checkoutResponse{
		Message: "Order created successfully",
		OrderID: out.ID,
		Order:   out,
	})
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return badRequest(c, "id", "invalid id")
	}

	out, err := h.uc.GetMyOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
