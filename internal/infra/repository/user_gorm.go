package repository

import (
	"context"
	"time"

	"zajil/internal/domain/model"
	domainrepo "zajil/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

// emailでユーザーを1件取得
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ユーザーを更新。
func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

// 期限を過ぎているときだけ更新する。同時に2回来ても通るのは1回
func (r *userGormRepository) UpdateProfileIfDue(ctx context.Context, user *model.User, dueBefore time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND last_profile_update < ?", user.ID, dueBefore).
		Updates(map[string]interface{}{
			"full_name":           user.FullName,
			"wilaya":              user.Wilaya,
			"address":             user.Address,
			"postal_code":         user.PostalCode,
			"phone_number":        user.PhoneNumber,
			"last_profile_update": user.LastProfileUpdate,
			"updated_at":          user.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ユーザー削除。注文は残して持ち主だけ外す
func (r *userGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).
			Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.AuthToken{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		// 0件削除は「対象がない」
		if res.RowsAffected == 0 {
			return domainrepo.ErrNotFound
		}
		return nil
	})
}
