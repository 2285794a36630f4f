package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zajil/internal/domain/model"
	"zajil/internal/repository"
)

// 動作確認用の顧客
const (
	DemoUserEmail = "test@example.com"

	// bcrypt として解釈できないのでログインには使えない
	unusablePassword = "!"
)

type DemoOrderDeps struct {
	Users   repository.UserRepository
	Authors repository.AuthorRepository
	Books   repository.BookRepository
	Orders  repository.OrderRepository
	Tx      repository.TransactionManager
	NewID   func() string
}

type DemoOrderResult struct {
	UserCreated  bool
	OrderCreated bool
	OrderID      string
}

// DemoOrder はデモ顧客と pending の注文（先頭2冊）を入れる。
// Run の後に実行する。pending の注文が既にあれば何もしない。在庫は減らさない。
func DemoOrder(ctx context.Context, deps DemoOrderDeps, now time.Time, logger *slog.Logger) (DemoOrderResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res DemoOrderResult

	lines, err := demoOrderBooks(ctx, deps)
	if err != nil {
		return res, err
	}

	user, err := deps.Users.FindByEmail(ctx, DemoUserEmail)
	if errors.Is(err, repository.ErrNotFound) {
		user = &model.User{
			Email:             DemoUserEmail,
			PasswordHash:      unusablePassword,
			FullName:          "Test User",
			Wilaya:            "16",
			Address:           "123 Test Street",
			PostalCode:        "16000",
			PhoneNumber:       "0123456789",
			IsActive:          true,
			LastProfileUpdate: now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := deps.Users.Create(ctx, user); err != nil {
			return res, fmt.Errorf("create demo user: %w", err)
		}
		res.UserCreated = true
		logger.Info("created demo user", slog.String("email", user.Email))
	} else if err != nil {
		return res, err
	}

	existing, err := deps.Orders.ListByUserID(ctx, user.ID)
	if err != nil {
		return res, err
	}
	for _, o := range existing {
		if o.Status == model.OrderStatusPending {
			res.OrderID = o.ID
			logger.Info("demo order exists", slog.String("order_id", o.ID))
			return res, nil
		}
	}

	userID := user.ID
	order := model.Order{
		ID:          deps.NewID(),
		UserID:      &userID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		Wilaya:      user.Wilaya,
		PostalCode:  user.PostalCode,
		Status:      model.OrderStatusPending,
		TotalPrice:  model.OrderTotal(lines),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = deps.Tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}
		_, err := r.OrderItems().CreateBulk(ctx, order.ID, lines)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("create demo order: %w", err)
	}

	res.OrderCreated = true
	res.OrderID = order.ID
	logger.Info("created demo order",
		slog.String("order_id", order.ID),
		slog.Int("items", len(lines)),
		slog.String("total", order.TotalPrice.StringFixed(2)))
	return res, nil
}

// 1冊目を2部、2冊目を1部
func demoOrderBooks(ctx context.Context, deps DemoOrderDeps) ([]model.OrderItem, error) {
	quantities := []int64{2, 1}
	items := make([]model.OrderItem, 0, len(quantities))
	for i, qty := range quantities {
		s := demoBooks[i]
		author, err := deps.Authors.FindByName(ctx, demoAuthors[s.Author].Name)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("no demo books: run the catalog seed first")
		}
		if err != nil {
			return nil, err
		}
		b, err := deps.Books.FindByNameAndAuthor(ctx, s.Name, author.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("no demo books: run the catalog seed first")
		}
		if err != nil {
			return nil, err
		}
		it := model.OrderItem{BookID: b.ID, Quantity: qty, UnitPrice: b.Price}
		it.Recompute()
		items = append(items, it)
	}
	return items, nil
}
