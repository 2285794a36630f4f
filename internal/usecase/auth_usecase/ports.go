package auth

import (
	"time"

	"zajil/internal/domain/model"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// トークンのキーを作る約束
type KeyGenerator interface {
	NewKey() (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 入力DTOのタグ検証
type Validator interface {
	Validate(i interface{}) error
}

// 画面に返すユーザー（パスワードは含めない）
type UserOutput struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Wilaya            string    `json:"wilaya"`
	Address           string    `json:"address"`
	PostalCode        string    `json:"postal_code"`
	PhoneNumber       string    `json:"phone_number"`
	LastProfileUpdate time.Time `json:"last_profile_update"`
}

func toUserOutput(u *model.User) UserOutput {
	return UserOutput{
		ID:                u.ID,
		Email:             u.Email,
		FullName:          u.FullName,
		Wilaya:            u.Wilaya,
		Address:           u.Address,
		PostalCode:        u.PostalCode,
		PhoneNumber:       u.PhoneNumber,
		LastProfileUpdate: u.LastProfileUpdate,
	}
}

// 登録・ログインの出力
type AuthOutput struct {
	Token string     `json:"token"`
	User  UserOutput `json:"user"`
}
