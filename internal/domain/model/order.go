package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// 管理者が行える遷移。作成時は必ず pending
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCanceled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCanceled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo は from -> to が許可された遷移か
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	//UUID
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	//ゲスト注文ならnil。ユーザー削除時もnilになる
	UserID *int64 `gorm:"index" json:"user_id"`

	FullName    string `gorm:"type:varchar(255);not null" json:"full_name"`
	Email       string `gorm:"type:varchar(254);not null" json:"email"`
	PhoneNumber string `gorm:"type:varchar(20);not null" json:"phone_number"`
	Address     string `gorm:"type:text;not null" json:"address"`
	Wilaya      string `gorm:"type:varchar(2);not null;index" json:"wilaya"`
	PostalCode  string `gorm:"type:varchar(10);not null" json:"postal_code"`

	Status     OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
