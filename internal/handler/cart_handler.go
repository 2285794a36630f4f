package handler

import (
	"net/http"

	"zajil/internal/middleware"
	"zajil/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP。カートはセッションに付く
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	BookID   int64  `json:"book_id"`
	Quantity *int64 `json:"quantity"` // 省略時は1
}

type UpdateCartItemRequest struct {
	BookID   int64  `json:"book_id"`
	Quantity *int64 `json:"quantity"`
}

type RemoveCartItemRequest struct {
	BookID int64 `json:"book_id" query:"book_id"`
}

type cartResponse struct {
	Message string             `json:"message"`
	Cart    usecase.CartOutput `json:"cart"`
}

func (h *CartHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/cart", h.getCart)
	api.POST("/cart", h.addToCart)
	api.PUT("/cart", h.updateItem)
	api.DELETE("/cart", h.deleteItem)
}

func quantityOrOne(q *int64) int64 {
	if q == nil {
		return 1
	}
	return *q
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), middleware.SessionKey(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}
	if req.BookID <= 0 {
		return badRequest(c, "book_id", "book_id is required")
	}

	out, err := h.uc.Add(c.Request().Context(), middleware.SessionKey(c), req.BookID, quantityOrOne(req.Quantity))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cartResponse{Message: "Item added to cart", Cart: out})
}

// 数量を置き換える。0以下なら削除
func (h *CartHandler) updateItem(c echo.Context) error {
	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}
	if req.BookID <= 0 {
		return badRequest(c, "book_id", "book_id is required")
	}

	out, err := h.uc.SetQuantity(c.Request().Context(), middleware.SessionKey(c), req.BookID, quantityOrOne(req.Quantity))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cartResponse{Message: "Cart updated", Cart: out})
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	var req RemoveCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}
	if req.BookID <= 0 {
		return badRequest(c, "book_id", "book_id is required")
	}

	out, err := h.uc.Remove(c.Request().Context(), middleware.SessionKey(c), req.BookID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cartResponse{Message: "Item removed from cart", Cart: out})
}
