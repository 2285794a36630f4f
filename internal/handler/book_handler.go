package handler

import (
	"net/http"

	"zajil/internal/domain/model"
	"zajil/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /books と /search、選択肢一覧の公開API
type BookHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewBookHandler(uc *usecase.CatalogUsecase) *BookHandler {
	return &BookHandler{uc: uc}
}

// 公開ルートを登録
func (h *BookHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/books", h.list)
	api.GET("/books/:id", h.detail)
	api.GET("/search", h.search)

	api.GET("/wilayas", choices(model.Wilayas))
	api.GET("/categories", choices(model.Categories))
	api.GET("/order-statuses", choices(model.OrderStatuses))
}

func (h *BookHandler) list(c echo.Context) error {
	// page（default 1）
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "page", "invalid page")
	}

	// limit（default 20）
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return badRequest(c, "limit", "invalid limit")
	}

	out, err := h.uc.ListBooks(c.Request().Context(), usecase.ListBooksInput{
		Page:     page,
		Limit:    limit,
		Author:   c.QueryParam("author"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BookHandler) detail(c echo.Context) error {
	id, ok := pathInt64(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid id")
	}

	b, err := h.uc.GetBook(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) search(c echo.Context) error {
	out, err := h.uc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// [code, display] の配列を返す
func choices(list []model.Choice) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, list)
	}
}
