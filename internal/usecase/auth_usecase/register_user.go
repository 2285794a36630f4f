package auth

import (
	"context"
	"errors"
	"strings"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"
	"zajil/internal/repository"
	"zajil/internal/validator"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	FullName        string `json:"full_name" validate:"required,max=255"`
	Wilaya          string `json:"wilaya" validate:"required,wilaya"`
	Address         string `json:"address" validate:"required"`
	PostalCode      string `json:"postal_code" validate:"required,max=10"`
	PhoneNumber     string `json:"phone_number" validate:"required,max=20"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	hasher   PasswordHasher
	validate Validator
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	tokens *TokenService,
	hasher PasswordHasher,
	validate Validator,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		validate: validate,
		clock:    clock,
	}
}

// 会員登録実行。失敗したらユーザーは作られない
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (AuthOutput, error) {
	var out AuthOutput

	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := u.validate.Validate(&in); err != nil {
		return out, err
	}
	if in.Password != in.PasswordConfirm {
		return out, apperr.Validation("password_confirm", "Passwords don't match")
	}
	if err := validator.ValidatePassword("password", in.Password, in.Email); err != nil {
		return out, err
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return out, apperr.Conflict("email", "user with this email already exists.")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, apperr.Internal(err)
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, apperr.Internal(err)
	}

	now := u.clock.Now()
	user := &model.User{
		Email:        in.Email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		FullName:     in.FullName,
		Wilaya:       in.Wilaya,
		Address:      in.Address,
		PostalCode:   in.PostalCode,
		PhoneNumber:  in.PhoneNumber,
		IsActive:     true,
		//登録時刻から1週間はプロフィールを変えられない
		LastProfileUpdate: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// DBへ保存。同時登録はunique制約で弾く
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, apperr.Conflict("email", "user with this email already exists.")
		}
		return out, apperr.Internal(err)
	}

	token, err := u.tokens.GetOrCreate(ctx, user.ID)
	if err != nil {
		return out, apperr.Internal(err)
	}

	out.Token = token.Key
	out.User = toUserOutput(user)
	return out, nil
}

// ドメイン部分だけ小文字にする
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return email
	}
	return email[:i] + strings.ToLower(email[i:])
}
