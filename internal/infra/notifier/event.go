package notifier

import (
	"time"

	"zajil/internal/domain/model"
)

// 外部へ流す注文イベント
type OrderEvent struct {
	Type          string           `json:"type"`
	OrderID       string           `json:"order_id"`
	UserID        *int64           `json:"user_id"`
	FullName      string           `json:"full_name"`
	Email         string           `json:"email"`
	PhoneNumber   string           `json:"phone_number"`
	Wilaya        string           `json:"wilaya"`
	WilayaDisplay string           `json:"wilaya_display"`
	Status        string           `json:"status"`
	TotalPrice    string           `json:"total_price"`
	CreatedAt     time.Time        `json:"created_at"`
	Items         []OrderEventItem `json:"items"`
}

type OrderEventItem struct {
	BookID    int64  `json:"book_id"`
	BookName  string `json:"book_name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

const EventOrderPlaced = "order.placed"

func NewOrderPlacedEvent(o model.Order) OrderEvent {
	items := make([]OrderEventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderEventItem{
			BookID:    it.BookID,
			BookName:  bookName(it),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal.StringFixed(2),
		})
	}
	return OrderEvent{
		Type:          EventOrderPlaced,
		OrderID:       o.ID,
		UserID:        o.UserID,
		FullName:      o.FullName,
		Email:         o.Email,
		PhoneNumber:   o.PhoneNumber,
		Wilaya:        o.Wilaya,
		WilayaDisplay: model.WilayaName(o.Wilaya),
		Status:        string(o.Status),
		TotalPrice:    o.TotalPrice.StringFixed(2),
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}

func bookName(it model.OrderItem) string {
	if it.Book != nil {
		return it.Book.Name
	}
	return ""
}
