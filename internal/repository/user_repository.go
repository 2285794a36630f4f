package repository

import (
	"context"
	"time"

	"zajil/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。emailが重複していたら ErrDuplicate
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新=>パスワード・最後のログインなど
	Update(ctx context.Context, user *model.User) error
	//last_profile_update が dueBefore より前のときだけプロフィールを更新する
	UpdateProfileIfDue(ctx context.Context, user *model.User, dueBefore time.Time) (bool, error)
	//ユーザー削除。注文は消さずに user_id を NULL にする
	Delete(ctx context.Context, userID int64) error
}

// Bearerトークンの保存・取得
type AuthTokenRepository interface {
	Create(ctx context.Context, token model.AuthToken) error
	FindByKey(ctx context.Context, key string) (model.AuthToken, error)
	FindByUserID(ctx context.Context, userID int64) (model.AuthToken, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}
