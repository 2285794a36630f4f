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

// ログイン後のアカウント操作
type AccountUsecase struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	hasher   PasswordHasher
	verifier PasswordVerifier
	validate Validator
	clock    Clock
}

func NewAccountUsecase(
	userRepo repository.UserRepository,
	tokens *TokenService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	validate Validator,
	clock Clock,
) *AccountUsecase {
	return &AccountUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		verifier: verifier,
		validate: validate,
		clock:    clock,
	}
}

func (u *AccountUsecase) findUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, apperr.AuthFailed("unauthorized")
	}
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.AuthFailed("unauthorized")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (u *AccountUsecase) Logout(ctx context.Context, userID int64) error {
	return u.tokens.Revoke(ctx, userID)
}

func (u *AccountUsecase) GetProfile(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.findUser(ctx, userID)
	if err != nil {
		return UserOutput{}, err
	}
	return toUserOutput(user), nil
}

// 部分更新。nilの項目は変えない
type UpdateProfileInput struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Wilaya      *string `json:"wilaya" validate:"omitempty,wilaya"`
	Address     *string `json:"address" validate:"omitempty,min=1"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,min=1,max=10"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=1,max=20"`
}

// UpdateProfile は前回更新から7日を超えたときだけ通る。更新時刻も同じ更新で入れる
func (u *AccountUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (UserOutput, error) {
	user, err := u.findUser(ctx, userID)
	if err != nil {
		return UserOutput{}, err
	}

	now := u.clock.Now()
	if !user.CanUpdateProfile(now) {
		return UserOutput{}, apperr.RateLimited("Profile can only be updated once per week")
	}
	if err := u.validate.Validate(&in); err != nil {
		return UserOutput{}, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&user.FullName, in.FullName)
	apply(&user.Wilaya, in.Wilaya)
	apply(&user.Address, in.Address)
	apply(&user.PostalCode, in.PostalCode)
	apply(&user.PhoneNumber, in.PhoneNumber)
	user.LastProfileUpdate = now
	user.UpdatedAt = now

	ok, err := u.userRepo.UpdateProfileIfDue(ctx, user, now.Add(-model.ProfileUpdateInterval))
	if err != nil {
		return UserOutput{}, apperr.Internal(err)
	}
	if !ok {
		//同時に来た別の更新が先に通った
		return UserOutput{}, apperr.RateLimited("Profile can only be updated once per week")
	}
	return toUserOutput(user), nil
}

type ChangePasswordInput struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

func (u *AccountUsecase) ChangePassword(ctx context.Context, userID int64, in ChangePasswordInput) error {
	user, err := u.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.validate.Validate(&in); err != nil {
		return err
	}
	if !u.verifier.Verify(in.OldPassword, user.PasswordHash) {
		return apperr.AuthFailed("Current password is incorrect")
	}
	if in.NewPassword != in.NewPasswordConfirm {
		return apperr.Validation("new_password_confirm", "New passwords don't match")
	}
	if err := validator.ValidatePassword("new_password", in.NewPassword, user.Email); err != nil {
		return err
	}

	hashed, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	user.PasswordHash = hashed
	user.UpdatedAt = u.clock.Now()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// 注文は残る（user_id が NULL になる）
func (u *AccountUsecase) DeleteAccount(ctx context.Context, userID int64) error {
	if _, err := u.findUser(ctx, userID); err != nil {
		return err
	}
	err := u.userRepo.Delete(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.AuthFailed("unauthorized")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
