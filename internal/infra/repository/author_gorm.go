package repository

import (
	"context"

	"zajil/internal/domain/model"
	repo "zajil/internal/repository"

	"gorm.io/gorm"
)

type AuthorGormRepository struct {
	db *gorm.DB
}

func NewAuthorGormRepository(db *gorm.DB) *AuthorGormRepository {
	return &AuthorGormRepository{db: db}
}

func (r *AuthorGormRepository) Create(ctx context.Context, a model.Author) (model.Author, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Author{}, translate(err)
	}
	return a, nil
}

func (r *AuthorGormRepository) FindByID(ctx context.Context, id int64) (model.Author, error) {
	var a model.Author
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return model.Author{}, translate(err)
	}
	return a, nil
}

func (r *AuthorGormRepository) FindByName(ctx context.Context, name string) (model.Author, error) {
	var a model.Author
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id asc").First(&a).Error
	if err != nil {
		return model.Author{}, translate(err)
	}
	return a, nil
}

// 著者削除。FKのカスケードに頼らず本も同じTxで消す（sqliteでも同じ結果にする）
func (r *AuthorGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&model.Book{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Author{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
