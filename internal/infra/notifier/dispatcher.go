package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zajil/internal/domain/model"
)

// OrderDispatcher は注文確定をメールとイベントで知らせる。
// 途中で失敗しても残りの送信先には送る。
type OrderDispatcher struct {
	mailer     Mailer
	adminEmail string
	publishers []EventPublisher
}

func NewOrderDispatcher(mailer Mailer, adminEmail string, publishers ...EventPublisher) *OrderDispatcher {
	return &OrderDispatcher{mailer: mailer, adminEmail: adminEmail, publishers: publishers}
}

func (d *OrderDispatcher) OrderPlaced(ctx context.Context, order model.Order) error {
	var errs []error

	if d.adminEmail != "" {
		if err := d.mailer.Send(ctx, AdminOrderMessage(d.adminEmail, order)); err != nil {
			errs = append(errs, fmt.Errorf("admin mail: %w", err))
		}
	}
	//ログインユーザーの注文だけ本人にも送る
	if order.UserID != nil && order.Email != "" {
		if err := d.mailer.Send(ctx, CustomerOrderMessage(order)); err != nil {
			errs = append(errs, fmt.Errorf("customer mail: %w", err))
		}
	}

	ev := NewOrderPlacedEvent(order)
	for _, p := range d.publishers {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// 管理者向けの注文内容
func AdminOrderMessage(to string, o model.Order) Message {
	var b strings.Builder
	b.WriteString("New order received!\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s\n", o.FullName)
	fmt.Fprintf(&b, "Email: %s\n", o.Email)
	fmt.Fprintf(&b, "Phone: %s\n", o.PhoneNumber)
	fmt.Fprintf(&b, "Address: %s\n", o.Address)
	fmt.Fprintf(&b, "Wilaya: %s\n", model.WilayaName(o.Wilaya))
	fmt.Fprintf(&b, "Postal Code: %s\n", o.PostalCode)
	fmt.Fprintf(&b, "Total: $%s\n\n", o.TotalPrice.StringFixed(2))
	b.WriteString("Items:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d = $%s\n", bookName(it), it.Quantity, it.Subtotal.StringFixed(2))
	}

	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Order Confirmation - %s", o.ID),
		Body:    b.String(),
	}
}

func CustomerOrderMessage(o model.Order) Message {
	body := fmt.Sprintf(
		"Thank you for your order!\n\nOrder ID: %s\nTotal: $%s\n\nWe will process your order and contact you soon.",
		o.ID, o.TotalPrice.StringFixed(2),
	)
	return Message{
		To:      []string{o.Email},
		Subject: "Order Confirmation - Zajil Books",
		Body:    body,
	}
}
