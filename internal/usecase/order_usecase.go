package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"
	repo "zajil/internal/repository"
)

// 通知（メール・Kafka・WebSocket）1回あたりの上限
const notifyTimeout = 30 * time.Second

type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	carts    repo.CartStore
	validate Validator
	notifier OrderNotifier
	idGen    IDGenerator
	clock    Clock
	logger   *slog.Logger

	notifying sync.WaitGroup
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	carts repo.CartStore,
	validate Validator,
	notifier OrderNotifier,
	idGen IDGenerator,
	clock Clock,
	logger *slog.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUsecase{
		tx:       tx,
		orders:   orders,
		carts:    carts,
		validate: validate,
		notifier: notifier,
		idGen:    idGen,
		clock:    clock,
		logger:   logger,
	}
}

// 配送先・連絡先。全部必須
type CheckoutInput struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=254"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Address     string `json:"address" validate:"required"`
	Wilaya      string `json:"wilaya" validate:"required,wilaya"`
	PostalCode  string `json:"postal_code" validate:"required,max=10"`
}

func (in *CheckoutInput) trim() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)
	in.Wilaya = strings.TrimSpace(in.Wilaya)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
}

// Checkout はセッションのカートを注文にする。
// 全行を検証してから書き込むので、失敗時は在庫もカートも変わらない。
// userID が nil ならゲスト注文。
func (u *OrderUsecase) Checkout(ctx context.Context, sessionKey string, userID *int64, in CheckoutInput) (OrderOutput, error) {
	in.trim()
	if err := u.validate.Validate(&in); err != nil {
		return OrderOutput{}, err
	}

	cart, err := u.carts.LoadCart(ctx, sessionKey)
	if err != nil {
		return OrderOutput{}, apperr.Internal(err)
	}
	if cart.IsEmpty() {
		return OrderOutput{}, apperr.EmptyCart()
	}

	//ロック順を固定してデッドロックを避ける
	lines := make([]model.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].BookID < lines[j].BookID })

	var placed model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//全行を先に検証する（ここまでは書き込みなし）
		items := make([]model.OrderItem, 0, len(lines))
		books := make(map[int64]model.Book, len(lines))
		for _, line := range lines {
			b, err := r.Books().FindByIDForUpdate(ctx, line.BookID)
			if errors.Is(err, repo.ErrNotFound) || (err == nil && !b.Available) {
				return apperr.NotFound(fmt.Sprintf("Book with id %d not found", line.BookID))
			}
			if err != nil {
				return apperr.Internal(err)
			}
			if b.Stock < line.Quantity {
				return apperr.InsufficientStock(fmt.Sprintf("Insufficient stock for %s", b.Name), b.Stock)
			}

			books[b.ID] = b
			items = append(items, model.OrderItem{
				BookID:    b.ID,
				Quantity:  line.Quantity,
				UnitPrice: b.Price,
			})
		}

		now := u.clock.Now()
		order := model.Order{
			ID:          u.idGen.NewID(),
			UserID:      userID,
			FullName:    in.FullName,
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			Address:     in.Address,
			Wilaya:      in.Wilaya,
			PostalCode:  in.PostalCode,
			Status:      model.OrderStatusPending,
			TotalPrice:  model.OrderTotal(items),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Orders().Create(ctx, order); err != nil {
			return apperr.Internal(err)
		}

		saved, err := r.OrderItems().CreateBulk(ctx, order.ID, items)
		if err != nil {
			return apperr.Internal(err)
		}

		//条件付き減算。ロック済みなので通常は失敗しない
		for _, it := range saved {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.BookID, it.Quantity)
			if err != nil {
				return apperr.Internal(err)
			}
			if !ok {
				b := books[it.BookID]
				return apperr.InsufficientStock(fmt.Sprintf("Insufficient stock for %s", b.Name), b.Stock)
			}
		}

		for i := range saved {
			b := books[saved[i].BookID]
			saved[i].Book = &b
		}
		order.Items = saved
		placed = order
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, apperr.Internal(err)
	}

	//ここから先の失敗で注文は取り消さない
	if err := u.carts.SaveCart(ctx, sessionKey, model.Cart{}); err != nil {
		u.logger.ErrorContext(ctx, "clear cart after checkout",
			slog.String("order_id", placed.ID), slog.Any("error", err))
	}
	if u.notifier != nil {
		u.notifying.Add(1)
		go u.notify(context.WithoutCancel(ctx), placed)
	}

	u.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", placed.ID),
		slog.Int("items", len(placed.Items)),
		slog.String("total", money(placed.TotalPrice)))

	return toOrderOutput(placed), nil
}

// notify はレスポンスと切り離して送る。失敗はログだけ
func (u *OrderUsecase) notify(ctx context.Context, order model.Order) {
	defer u.notifying.Done()

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := u.notifier.OrderPlaced(ctx, order); err != nil {
		u.logger.WarnContext(ctx, "order notification failed",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}
}

// WaitNotifications は送信中の通知が終わるまで待つ（シャットダウン時）。
func (u *OrderUsecase) WaitNotifications() {
	u.notifying.Wait()
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, apperr.AuthFailed("unauthorized")
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return []OrderOutput{}, apperr.Internal(err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, apperr.AuthFailed("unauthorized")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, apperr.NotFound("Order not found")
	}
	if err != nil {
		return OrderOutput{}, apperr.Internal(err)
	}
	//他人の注文は「存在しない扱い」にする
	if o.UserID == nil || *o.UserID != userID {
		return OrderOutput{}, apperr.NotFound("Order not found")
	}
	return toOrderOutput(o), nil
}
