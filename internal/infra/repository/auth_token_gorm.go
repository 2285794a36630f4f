package repository

import (
	"context"

	"zajil/internal/domain/model"
	repo "zajil/internal/repository"

	"gorm.io/gorm"
)

type AuthTokenGormRepository struct {
	db *gorm.DB
}

func NewAuthTokenGormRepository(db *gorm.DB) *AuthTokenGormRepository {
	return &AuthTokenGormRepository{db: db}
}

// user_id は一意なので、同時作成の負けた側は ErrDuplicate になる
func (r *AuthTokenGormRepository) Create(ctx context.Context, token model.AuthToken) error {
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *AuthTokenGormRepository) FindByKey(ctx context.Context, key string) (model.AuthToken, error) {
	var t model.AuthToken
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&t).Error; err != nil {
		return model.AuthToken{}, translate(err)
	}
	return t, nil
}

func (r *AuthTokenGormRepository) FindByUserID(ctx context.Context, userID int64) (model.AuthToken, error) {
	var t model.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error; err != nil {
		return model.AuthToken{}, translate(err)
	}
	return t, nil
}

// ログアウト。トークンが無くてもエラーにしない
func (r *AuthTokenGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.AuthToken{}).Error
}

var _ repo.AuthTokenRepository = (*AuthTokenGormRepository)(nil)
