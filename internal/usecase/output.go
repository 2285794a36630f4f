package usecase

import (
	"time"

	"zajil/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 金額は "45.00" の文字列で返す
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type AuthorOutput struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Biography string `json:"biography"`
}

type BookOutput struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	CoverImage     string       `json:"cover_image"`
	Description    string       `json:"description"`
	Author         AuthorOutput `json:"author"`
	Publisher      string       `json:"publisher"`
	Price          string       `json:"price"`
	PublishingDate string       `json:"publishing_date"`
	Category       string       `json:"category"`
	Available      bool         `json:"available"`
	Stock          int64        `json:"stock"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func toAuthorOutput(a model.Author) AuthorOutput {
	return AuthorOutput{ID: a.ID, Name: a.Name, Biography: a.Biography}
}

func toBookOutput(b model.Book) BookOutput {
	return BookOutput{
		ID:             b.ID,
		Name:           b.Name,
		CoverImage:     b.CoverImage,
		Description:    b.Description,
		Author:         toAuthorOutput(b.Author),
		Publisher:      b.Publisher,
		Price:          money(b.Price),
		PublishingDate: b.PublishingDate.Format(dateLayout),
		Category:       string(b.Category),
		Available:      b.Available,
		Stock:          b.Stock,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

type OrderItemOutput struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"book_id"`
	BookName  string `json:"book_name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type OrderOutput struct {
	ID            string            `json:"id"`
	UserID        *int64            `json:"user_id"`
	FullName      string            `json:"full_name"`
	Email         string            `json:"email"`
	PhoneNumber   string            `json:"phone_number"`
	Address       string            `json:"address"`
	Wilaya        string            `json:"wilaya"`
	WilayaDisplay string            `json:"wilaya_display"`
	PostalCode    string            `json:"postal_code"`
	Status        string            `json:"status"`
	StatusDisplay string            `json:"status_display"`
	TotalPrice    string            `json:"total_price"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Items         []OrderItemOutput `json:"items"`
}

func toOrderOutput(o model.Order) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		name := ""
		if it.Book != nil {
			name = it.Book.Name
		}
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			BookID:    it.BookID,
			BookName:  name,
			Quantity:  it.Quantity,
			UnitPrice: money(it.UnitPrice),
			Subtotal:  money(it.Subtotal),
		})
	}

	return OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		FullName:      o.FullName,
		Email:         o.Email,
		PhoneNumber:   o.PhoneNumber,
		Address:       o.Address,
		Wilaya:        o.Wilaya,
		WilayaDisplay: model.WilayaName(o.Wilaya),
		PostalCode:    o.PostalCode,
		Status:        string(o.Status),
		StatusDisplay: statusDisplay(o.Status),
		TotalPrice:    money(o.TotalPrice),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Items:         outItems,
	}
}

func statusDisplay(s model.OrderStatus) string {
	for _, c := range model.OrderStatuses {
		if c.Code == string(s) {
			return c.Display
		}
	}
	return string(s)
}

const dateLayout = "2006-01-02"
