package handler

import (
	"fmt"
	"net/http"
	"time"

	"zajil/internal/domain/model"
	"zajil/internal/middleware"
	"zajil/internal/repository"
	"zajil/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tealeg/xlsx"
)

// 管理画面のWebSocket（notifier.Feed）
type OrderFeed interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

type AdminOrderHandler struct {
	uc   *usecase.AdminOrderUsecase
	feed OrderFeed
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, feed OrderFeed) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, feed: feed}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// admin は TokenAuth + AdminRoleGuard 済みのグループ
func (h *AdminOrderHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/orders", h.list)
	admin.GET("/orders/export", h.export)
	admin.GET("/orders/feed", h.subscribe)
	admin.GET("/orders/:id", h.detail)
	admin.GET("/orders/:id/history", h.history)
	admin.PUT("/orders/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "page", "invalid page")
	}

	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return badRequest(c, "limit", "invalid limit")
	}

	out, err := h.uc.List(c.Request().Context(), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		Wilaya: c.QueryParam("wilaya"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return badRequest(c, "id", "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) history(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return badRequest(c, "id", "invalid id")
	}

	logs, err := h.uc.History(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return badRequest(c, "id", "invalid id")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	// ★操作した管理者IDを取得（監査ログ用）
	adminID, _ := middleware.UserID(c)

	out, err := h.uc.UpdateStatus(c.Request().Context(), adminID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

var exportHeader = []string{
	"Order ID", "Created At", "Customer", "Email", "Phone", "Address",
	"Wilaya", "Postal Code", "Status", "Items", "Total",
}

// 絞り込んだ注文を .xlsx で返す
func (h *AdminOrderHandler) export(c echo.Context) error {
	orders, err := h.uc.ListAll(c.Request().Context(), c.QueryParam("status"), c.QueryParam("wilaya"))
	if err != nil {
		return writeError(c, err)
	}

	file, err := BuildOrdersWorkbook(orders)
	if err != nil {
		return writeError(c, err)
	}

	name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	res.WriteHeader(http.StatusOK)
	return file.Write(res)
}

func BuildOrdersWorkbook(orders []model.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, title := range exportHeader {
		header.AddCell().SetString(title)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.CreatedAt.UTC().Format(time.RFC3339))
		row.AddCell().SetString(o.FullName)
		row.AddCell().SetString(o.Email)
		row.AddCell().SetString(o.PhoneNumber)
		row.AddCell().SetString(o.Address)
		row.AddCell().SetString(model.WilayaName(o.Wilaya))
		row.AddCell().SetString(o.PostalCode)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetInt(itemCount(o.Items))
		row.AddCell().SetString(o.TotalPrice.StringFixed(2))
	}
	return file, nil
}

func itemCount(items []model.OrderItem) int {
	n := 0
	for _, it := range items {
		n += int(it.Quantity)
	}
	return n
}

// GET /api/admin/orders/feed（WebSocket）
func (h *AdminOrderHandler) subscribe(c echo.Context) error {
	err := h.feed.Serve(c.Response(), c.Request())
	if err != nil && !c.Response().Committed {
		return badRequest(c, "", "websocket upgrade failed")
	}
	return nil
}
