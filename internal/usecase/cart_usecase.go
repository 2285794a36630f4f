package usecase

import (
	"context"
	"errors"
	"fmt"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"
	repo "zajil/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はセッション単位のカート。在庫は毎回読み直す
type CartUsecase struct {
	store repo.CartStore
	books repo.BookRepository
}

func NewCartUsecase(store repo.CartStore, books repo.BookRepository) *CartUsecase {
	return &CartUsecase{store: store, books: books}
}

type CartItemOutput struct {
	BookID         int64  `json:"book_id"`
	Quantity       int64  `json:"quantity"`
	BookName       string `json:"book_name"`
	BookPrice      string `json:"book_price"`
	BookCover      string `json:"book_cover"`
	Subtotal       string `json:"subtotal"`
	AvailableStock int64  `json:"available_stock"`
}

type CartOutput struct {
	Items      []CartItemOutput `json:"items"`
	TotalItems int64            `json:"total_items"`
	TotalPrice string           `json:"total_price"`
}

// Get は消えた本・非公開の本・在庫が足りない行を落として返す。落とした結果は保存し直す
func (u *CartUsecase) Get(ctx context.Context, sessionKey string) (CartOutput, error) {
	cart, err := u.store.LoadCart(ctx, sessionKey)
	if err != nil {
		return CartOutput{}, apperr.Internal(err)
	}

	kept := model.Cart{}
	items := make([]CartItemOutput, 0, len(cart.Lines))
	total := decimal.Zero

	for _, line := range cart.Lines {
		b, err := u.books.FindByID(ctx, line.BookID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartOutput{}, apperr.Internal(err)
		}
		//在庫不足は数量を減らさず行ごと落とす
		if !b.Available || b.Stock < line.Quantity {
			continue
		}

		subtotal := model.LineSubtotal(line.Quantity, b.Price)
		items = append(items, CartItemOutput{
			BookID:         b.ID,
			Quantity:       line.Quantity,
			BookName:       b.Name,
			BookPrice:      money(b.Price),
			BookCover:      b.CoverImage,
			Subtotal:       money(subtotal),
			AvailableStock: b.Stock,
		})
		total = total.Add(subtotal)
		kept = kept.Set(line.BookID, line.Quantity)
	}

	if len(kept.Lines) != len(cart.Lines) {
		if err := u.store.SaveCart(ctx, sessionKey, kept); err != nil {
			return CartOutput{}, apperr.Internal(err)
		}
	}

	return CartOutput{
		Items:      items,
		TotalItems: kept.TotalItems(),
		TotalPrice: money(total),
	}, nil
}

// 追加できる本を取る。無い・非公開なら NotFound
func (u *CartUsecase) findOrderable(ctx context.Context, bookID int64) (model.Book, error) {
	if bookID <= 0 {
		return model.Book{}, apperr.Validation("book_id", "book_id is required")
	}
	b, err := u.books.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, apperr.NotFound("Book not found")
	}
	if err != nil {
		return model.Book{}, apperr.Internal(err)
	}
	if !b.Orderable() {
		return model.Book{}, apperr.NotFound("Book not found")
	}
	return b, nil
}

// Add は既存の行に数量を足す
func (u *CartUsecase) Add(ctx context.Context, sessionKey string, bookID int64, quantity int64) (CartOutput, error) {
	if quantity < 1 {
		return CartOutput{}, apperr.Validation("quantity", "Ensure this value is greater than or equal to 1.")
	}
	b, err := u.findOrderable(ctx, bookID)
	if err != nil {
		return CartOutput{}, err
	}

	cart, err := u.store.LoadCart(ctx, sessionKey)
	if err != nil {
		return CartOutput{}, apperr.Internal(err)
	}

	current := cart.Quantity(bookID)
	if current+quantity > b.Stock {
		left := b.Stock - current
		if left < 0 {
			left = 0
		}
		return CartOutput{}, apperr.InsufficientStock(
			fmt.Sprintf("Cannot add %d more copies. Only %d available", quantity, left), left)
	}

	if err := u.store.SaveCart(ctx, sessionKey, cart.Set(bookID, current+quantity)); err != nil {
		return CartOutput{}, apperr.Internal(err)
	}
	return u.Get(ctx, sessionKey)
}

// SetQuantity は数量を上書きする。0以下は削除
func (u *CartUsecase) SetQuantity(ctx context.Context, sessionKey string, bookID int64, quantity int64) (CartOutput, error) {
	if quantity <= 0 {
		return u.Remove(ctx, sessionKey, bookID)
	}
	b, err := u.findOrderable(ctx, bookID)
	if err != nil {
		return CartOutput{}, err
	}
	if quantity > b.Stock {
		return CartOutput{}, apperr.InsufficientStock(
			fmt.Sprintf("Only %d copies available", b.Stock), b.Stock)
	}

	cart, err := u.store.LoadCart(ctx, sessionKey)
	if err != nil {
		return CartOutput{}, apperr.Internal(err)
	}
	if err := u.store.SaveCart(ctx, sessionKey, cart.Set(bookID, quantity)); err != nil {
		return CartOutput{}, apperr.Internal(err)
	}
	return u.Get(ctx, sessionKey)
}

// Remove は無い本でもエラーにしない
func (u *CartUsecase) Remove(ctx context.Context, sessionKey string, bookID int64) (CartOutput, error) {
	cart, err := u.store.LoadCart(ctx, sessionKey)
	if err != nil {
		return CartOutput{}, apperr.Internal(err)
	}
	if cart.Quantity(bookID) > 0 {
		if err := u.store.SaveCart(ctx, sessionKey, cart.Remove(bookID)); err != nil {
			return CartOutput{}, apperr.Internal(err)
		}
	}
	return u.Get(ctx, sessionKey)
}

func (u *CartUsecase) Clear(ctx context.Context, sessionKey string) error {
	if err := u.store.SaveCart(ctx, sessionKey, model.Cart{}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
