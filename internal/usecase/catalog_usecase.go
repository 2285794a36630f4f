package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"
	repo "zajil/internal/repository"

	"github.com/shopspring/decimal"
)

// 検索結果の上限
const SearchLimit = 10

type CatalogUsecase struct {
	books    repo.BookRepository
	authors  repo.AuthorRepository
	tx       repo.TransactionManager
	validate Validator
	clock    Clock
}

// DI
func NewCatalogUsecase(
	books repo.BookRepository,
	authors repo.AuthorRepository,
	tx repo.TransactionManager,
	validate Validator,
	clock Clock,
) *CatalogUsecase {
	return &CatalogUsecase{
		books:    books,
		authors:  authors,
		tx:       tx,
		validate: validate,
		clock:    clock,
	}
}

// GET /booksの入力DTO
type ListBooksInput struct {
	Page     int
	Limit    int
	Author   string
	Category string
}

type BookListOutput struct {
	Items []BookOutput `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *CatalogUsecase) ListBooks(ctx context.Context, in ListBooksInput) (BookListOutput, error) {
	if in.Page < 1 {
		return BookListOutput{}, apperr.Validation("page", "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return BookListOutput{}, apperr.Validation("limit", "invalid limit")
	}
	if len(in.Author) > 255 {
		return BookListOutput{}, apperr.Validation("author", "author too long")
	}

	items, total, err := u.books.ListAvailable(ctx, repo.BookListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Author:   strings.TrimSpace(in.Author),
		Category: strings.TrimSpace(in.Category),
	})
	if err != nil {
		return BookListOutput{}, apperr.Internal(err)
	}

	out := make([]BookOutput, 0, len(items))
	for _, b := range items {
		out = append(out, toBookOutput(b))
	}
	return BookListOutput{Items: out, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 非公開の本は存在しない扱い
func (u *CatalogUsecase) GetBook(ctx context.Context, bookID int64) (BookOutput, error) {
	if bookID <= 0 {
		return BookOutput{}, apperr.Validation("id", "invalid book id")
	}

	b, err := u.books.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return BookOutput{}, apperr.NotFound("Book not found")
	}
	if err != nil {
		return BookOutput{}, apperr.Internal(err)
	}
	if !b.Available {
		return BookOutput{}, apperr.NotFound("Book not found")
	}
	return toBookOutput(b), nil
}

type SearchOutput struct {
	Query   string       `json:"query"`
	Results []BookOutput `json:"results"`
}

// 空の検索語は空の結果
func (u *CatalogUsecase) Search(ctx context.Context, q string) (SearchOutput, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return SearchOutput{Results: []BookOutput{}}, nil
	}
	if len(q) > 255 {
		return SearchOutput{}, apperr.Validation("q", "Ensure this field has no more than 255 characters.")
	}

	books, err := u.books.Search(ctx, q, SearchLimit)
	if err != nil {
		return SearchOutput{}, apperr.Internal(err)
	}
	out := make([]BookOutput, 0, len(books))
	for _, b := range books {
		out = append(out, toBookOutput(b))
	}
	return SearchOutput{Query: q, Results: out}, nil
}

type AuthorInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Biography string `json:"biography"`
}

func (u *CatalogUsecase) AdminCreateAuthor(ctx context.Context, adminUserID int64, in AuthorInput) (AuthorOutput, error) {
	if adminUserID <= 0 {
		return AuthorOutput{}, apperr.AuthFailed("unauthorized")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := u.validate.Validate(&in); err != nil {
		return AuthorOutput{}, err
	}

	a, err := u.authors.Create(ctx, model.Author{Name: in.Name, Biography: in.Biography})
	if err != nil {
		return AuthorOutput{}, apperr.Internal(err)
	}
	return toAuthorOutput(a), nil
}

// 著者の本もまとめて消える
func (u *CatalogUsecase) AdminDeleteAuthor(ctx context.Context, adminUserID int64, authorID int64) error {
	if adminUserID <= 0 {
		return apperr.AuthFailed("unauthorized")
	}
	if authorID <= 0 {
		return apperr.Validation("id", "invalid author id")
	}

	err := u.authors.Delete(ctx, authorID)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("Author not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// 管理画面の本入力。stock は作成時だけ使う（以後は在庫APIで変える）
type BookInput struct {
	Name           string          `json:"name" validate:"required,max=255"`
	CoverImage     string          `json:"cover_image" validate:"max=255"`
	Description    string          `json:"description"`
	AuthorID       int64           `json:"author_id" validate:"required,gt=0"`
	Publisher      string          `json:"publisher" validate:"required,max=255"`
	Price          decimal.Decimal `json:"price"`
	PublishingDate string          `json:"publishing_date" validate:"required,datetime=2006-01-02"`
	Category       string          `json:"category" validate:"required,category"`
	Available      *bool           `json:"available"`
	Stock          int64           `json:"stock" validate:"gte=0"`
}

func (u *CatalogUsecase) toBook(ctx context.Context, in BookInput) (model.Book, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Publisher = strings.TrimSpace(in.Publisher)
	if err := u.validate.Validate(&in); err != nil {
		return model.Book{}, err
	}
	if !in.Price.IsPositive() {
		return model.Book{}, apperr.Validation("price", "Ensure this value is greater than 0.")
	}
	if in.Price.Exponent() < -2 {
		return model.Book{}, apperr.Validation("price", "Ensure that there are no more than 2 decimal places.")
	}
	published, err := time.Parse(dateLayout, in.PublishingDate)
	if err != nil {
		return model.Book{}, apperr.Validation("publishing_date", "Date has wrong format. Use YYYY-MM-DD.")
	}

	author, err := u.authors.FindByID(ctx, in.AuthorID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, apperr.Validation("author_id", fmt.Sprintf("Author with id %d does not exist", in.AuthorID))
	}
	if err != nil {
		return model.Book{}, apperr.Internal(err)
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}

	return model.Book{
		Name:           in.Name,
		CoverImage:     in.CoverImage,
		Description:    in.Description,
		AuthorID:       author.ID,
		Author:         author,
		Publisher:      in.Publisher,
		Price:          in.Price,
		PublishingDate: published,
		Category:       model.Category(in.Category),
		Available:      available,
		Stock:          in.Stock,
	}, nil
}

func (u *CatalogUsecase) AdminCreateBook(ctx context.Context, adminUserID int64, in BookInput) (BookOutput, error) {
	if adminUserID <= 0 {
		return BookOutput{}, apperr.AuthFailed("unauthorized")
	}
	b, err := u.toBook(ctx, in)
	if err != nil {
		return BookOutput{}, err
	}

	now := u.clock.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	created, err := u.books.Create(ctx, b)
	if err != nil {
		return BookOutput{}, apperr.Internal(err)
	}
	created.Author = b.Author
	return toBookOutput(created), nil
}

func (u *CatalogUsecase) AdminUpdateBook(ctx context.Context, adminUserID int64, bookID int64, in BookInput) (BookOutput, error) {
	if adminUserID <= 0 {
		return BookOutput{}, apperr.AuthFailed("unauthorized")
	}
	if bookID <= 0 {
		return BookOutput{}, apperr.Validation("id", "invalid book id")
	}
	b, err := u.toBook(ctx, in)
	if err != nil {
		return BookOutput{}, err
	}
	b.ID = bookID

	err = u.books.Update(ctx, b)
	if errors.Is(err, repo.ErrNotFound) {
		return BookOutput{}, apperr.NotFound("Book not found")
	}
	if err != nil {
		return BookOutput{}, apperr.Internal(err)
	}

	updated, err := u.books.FindByID(ctx, bookID)
	if err != nil {
		return BookOutput{}, apperr.Internal(err)
	}
	return toBookOutput(updated), nil
}

// 在庫を「現在値」に更新し、調整履歴と監査ログも残す
func (u *CatalogUsecase) AdminUpdateInventory(ctx context.Context, adminUserID int64, bookID int64, newStock int64, reason string) error {
	if adminUserID <= 0 {
		return apperr.AuthFailed("unauthorized")
	}
	if bookID <= 0 {
		return apperr.Validation("id", "invalid book id")
	}
	if newStock < 0 {
		return apperr.Validation("stock", "stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperr.Validation("reason", "reason is required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）。チェックアウトと競合しないよう行ロック
		b, err := r.Books().FindByIDForUpdate(ctx, bookID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("Book not found")
		}
		if err != nil {
			return apperr.Internal(err)
		}

		if err := r.Inventory().SetStock(ctx, bookID, newStock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return apperr.NotFound("Book not found")
			}
			return apperr.Internal(err)
		}

		now := u.clock.Now()

		//履歴を作成（差分）
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			BookID:      bookID,
			AdminUserID: adminUserID,
			Delta:       newStock - b.Stock,
			Reason:      reason,
			CreatedAt:   now,
		}); err != nil {
			return apperr.Internal(err)
		}

		//監査ログを作成（在庫更新）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceBook,
			ResourceID:   fmt.Sprintf("%d", bookID),
			BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, b.Stock),
			AfterJSON:    fmt.Sprintf(`{"stock":%d}`, newStock),
			CreatedAt:    now,
		}); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}
