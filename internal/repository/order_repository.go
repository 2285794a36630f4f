package repository

import (
	"context"

	"zajil/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	Wilaya string
}

// 取得系は Items と Items.Book を埋めて返す
type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	//明細は保存しない（OrderItemRepository で入れる）
	Create(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

type OrderItemRepository interface {
	//小計は入力を信用せず model.LineSubtotal で計算し直して保存する
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)
}
