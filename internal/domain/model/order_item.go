package model

import "github.com/shopspring/decimal"

// 注文明細。(order_id, book_id) は一意
type OrderItem struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_order_items_order_book" json:"order_id"`
	BookID  int64  `gorm:"not null;uniqueIndex:idx_order_items_order_book" json:"book_id"`
	Book    *Book  `gorm:"constraint:OnDelete:CASCADE" json:"book,omitempty"`

	Quantity int64 `gorm:"not null;check:chk_order_items_quantity,quantity >= 1" json:"quantity"`

	//注文時点の価格スナップショット
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`

	//保存前に必ず LineSubtotal で計算し直す
	Subtotal decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
}

// LineSubtotal は quantity * unitPrice。
func LineSubtotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// 小計を数量と単価から上書きする
func (it *OrderItem) Recompute() {
	it.Subtotal = LineSubtotal(it.Quantity, it.UnitPrice)
}

// OrderTotal は明細の小計の合計
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineSubtotal(it.Quantity, it.UnitPrice))
	}
	return total
}
