package auth

import (
	"context"
	"errors"

	"zajil/internal/apperr"
	"zajil/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	verifier PasswordVerifier
	validate Validator
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	tokens *TokenService,
	verifier PasswordVerifier,
	validate Validator,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		verifier: verifier,
		validate: validate,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	var out AuthOutput

	in.Email = normalizeEmail(in.Email)
	if err := u.validate.Validate(&in); err != nil {
		return out, err
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return out, apperr.AuthFailed("Invalid email or password")
	}
	if err != nil {
		return out, apperr.Internal(err)
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, apperr.AuthFailed("Invalid email or password")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return out, apperr.AuthFailed("User account is disabled")
	}

	//最終ログイン時刻更新
	now := u.clock.Now()
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
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
