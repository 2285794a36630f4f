package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	CoverImage  string `gorm:"type:varchar(255)" json:"cover_image"`
	Description string `gorm:"type:text" json:"description"`

	AuthorID int64  `gorm:"not null;index" json:"author_id"`
	Author   Author `gorm:"constraint:OnDelete:CASCADE" json:"author"`

	Publisher string `gorm:"type:varchar(255);not null" json:"publisher"`

	//0より大きい
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`

	PublishingDate time.Time `gorm:"type:date" json:"publishing_date"`
	Category       Category  `gorm:"type:varchar(50);not null" json:"category"`

	//falseなら一覧・カート・注文の対象外
	Available bool `gorm:"not null;default:true" json:"available"`

	//負にならない
	Stock int64 `gorm:"not null;default:0;check:chk_books_stock,stock >= 0" json:"stock"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 注文可能か（存在して available）
func (b Book) Orderable() bool {
	return b.ID > 0 && b.Available
}
