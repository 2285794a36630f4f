package handler

import (
	"net/http"

	"zajil/internal/middleware"
	"zajil/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者向けの著者・本・在庫
type AdminCatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{uc: uc}
}

type InventoryUpdateRequest struct {
	Stock  *int64 `json:"stock"`
	Reason string `json:"reason"`
}

func (h *AdminCatalogHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/authors", h.createAuthor)
	admin.DELETE("/authors/:id", h.deleteAuthor)
	admin.POST("/books", h.createBook)
	admin.PUT("/books/:id", h.updateBook)
	admin.PUT("/inventory/:id", h.updateInventory)
}

func (h *AdminCatalogHandler) createAuthor(c echo.Context) error {
	var req usecase.AuthorInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	adminID, _ := middleware.UserID(c)
	out, err := h.uc.AdminCreateAuthor(c.Request().Context(), adminID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) deleteAuthor(c echo.Context) error {
	id, ok := pathInt64(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid id")
	}

	adminID, _ := middleware.UserID(c)
	if err := h.uc.AdminDeleteAuthor(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminCatalogHandler) createBook(c echo.Context) error {
	var req usecase.BookInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	adminID, _ := middleware.UserID(c)
	out, err := h.uc.AdminCreateBook(c.Request().Context(), adminID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateBook(c echo.Context) error {
	id, ok := pathInt64(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid id")
	}

	var req usecase.BookInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	adminID, _ := middleware.UserID(c)
	out, err := h.uc.AdminUpdateBook(c.Request().Context(), adminID, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCatalogHandler) updateInventory(c echo.Context) error {
	id, ok := pathInt64(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid id")
	}

	var req InventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}
	if req.Stock == nil {
		return badRequest(c, "stock", "stock is required")
	}

	adminID, _ := middleware.UserID(c)
	if err := h.uc.AdminUpdateInventory(c.Request().Context(), adminID, id, *req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "updated"})
}
