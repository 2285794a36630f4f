package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"
	"zajil/internal/repository"
)

// 40桁の16進キー
type RandomKeyGenerator struct{}

func (RandomKeyGenerator) NewKey() (string, error) {
	b := make([]byte, 20)
	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// TokenService はユーザーごとに1つだけのBearerトークンを扱う
type TokenService struct {
	tokens repository.AuthTokenRepository
	users  repository.UserRepository
	keys   KeyGenerator
	clock  Clock
}

func NewTokenService(tokens repository.AuthTokenRepository, users repository.UserRepository, keys KeyGenerator, clock Clock) *TokenService {
	return &TokenService{tokens: tokens, users: users, keys: keys, clock: clock}
}

// GetOrCreate は既存のトークンを返し、無ければ作る
func (s *TokenService) GetOrCreate(ctx context.Context, userID int64) (model.AuthToken, error) {
	t, err := s.tokens.FindByUserID(ctx, userID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.AuthToken{}, err
	}

	key, err := s.keys.NewKey()
	if err != nil {
		return model.AuthToken{}, err
	}
	t = model.AuthToken{Key: key, UserID: userID, CreatedAt: s.clock.Now()}
	err = s.tokens.Create(ctx, t)
	if errors.Is(err, repository.ErrDuplicate) {
		//同時ログインで先に作られた
		return s.tokens.FindByUserID(ctx, userID)
	}
	if err != nil {
		return model.AuthToken{}, err
	}
	return t, nil
}

// Authenticate はキーからユーザーを引く。無効なユーザーも弾く
func (s *TokenService) Authenticate(ctx context.Context, key string) (*model.User, error) {
	if key == "" {
		return nil, apperr.AuthFailed("Invalid token.")
	}
	t, err := s.tokens.FindByKey(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.AuthFailed("Invalid token.")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u, err := s.users.FindByID(ctx, t.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.AuthFailed("Invalid token.")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !u.IsActive {
		return nil, apperr.AuthFailed("User inactive or deleted.")
	}
	return u, nil
}

// Revoke はログアウト
func (s *TokenService) Revoke(ctx context.Context, userID int64) error {
	if err := s.tokens.DeleteByUserID(ctx, userID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
