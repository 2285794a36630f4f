package repository

import (
	"context"
	"strings"

	"zajil/internal/domain/model"
	repo "zajil/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// available な本だけを、著者名/カテゴリ絞り込み・ページング付きで返す。
func (r *BookGormRepository) ListAvailable(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Book{}).
		Joins("JOIN authors ON authors.id = books.author_id").
		Where("books.available = ?", true)

	if a := strings.TrimSpace(q.Author); a != "" {
		tx = tx.Where("LOWER(authors.name) LIKE ? ESCAPE '\\'", likePattern(a))
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		tx = tx.Where("books.category = ?", c)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Book{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	err := tx.Preload("Author").
		Order("books.created_at desc").Order("books.id desc").
		Offset(offset).Limit(q.Limit).
		Find(&books).Error
	if err != nil {
		return []model.Book{}, 0, err
	}
	return books, total, nil
}

// 本の名前か著者名の部分一致
func (r *BookGormRepository) Search(ctx context.Context, q string, limit int) ([]model.Book, error) {
	like := likePattern(q)

	var books []model.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN authors ON authors.id = books.author_id").
		Where("books.available = ?", true).
		Where("LOWER(books.name) LIKE ? ESCAPE '\\' OR LOWER(authors.name) LIKE ? ESCAPE '\\'", like, like).
		Preload("Author").
		Order("books.id asc").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

// IDで本を取得
func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).Preload("Author").First(&b, id).Error; err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

// 行ロックして取得。同じ本を触るチェックアウトはここで直列になる
func (r *BookGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error
	if err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

func (r *BookGormRepository) FindByNameAndAuthor(ctx context.Context, name string, authorID int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).
		Where("name = ? AND author_id = ?", name, authorID).
		First(&b).Error
	if err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

// 本の作成
func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&b).Error; err != nil {
		return model.Book{}, translate(err)
	}
	return b, nil
}

// 本の更新（在庫は InventoryRepository で変える）
func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":            b.Name,
		"cover_image":     b.CoverImage,
		"description":     b.Description,
		"author_id":       b.AuthorID,
		"publisher":       b.Publisher,
		"price":           b.Price,
		"publishing_date": b.PublishingDate,
		"category":        b.Category,
		"available":       b.Available,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// % と _ は文字として扱う
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
