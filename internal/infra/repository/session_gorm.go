package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"zajil/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// セッションデータの中でカートを置くキー
const cartSessionKey = "cart"

// sessions テーブルに置くカート。1セッション1行、データはキーごとのJSON
type SessionGormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionGormStore(db *gorm.DB, ttl time.Duration) *SessionGormStore {
	return &SessionGormStore{db: db, ttl: ttl, now: time.Now}
}

func (s *SessionGormStore) load(ctx context.Context, key string) (map[string]json.RawMessage, error) {
	data := map[string]json.RawMessage{}

	var row model.Session
	err := s.db.WithContext(ctx).
		Where("key = ? AND expire_at > ?", key, s.now()).
		First(&row).Error
	if isNotFound(err) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if row.Data == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return data, nil
}

// カートは追加順の [{book_id, quantity}] で保存する
func (s *SessionGormStore) LoadCart(ctx context.Context, sessionKey string) (model.Cart, error) {
	data, err := s.load(ctx, sessionKey)
	if err != nil {
		return model.Cart{}, err
	}
	raw, ok := data[cartSessionKey]
	if !ok {
		return model.Cart{}, nil
	}

	var stored []storedCartLine
	if err := json.Unmarshal(raw, &stored); err != nil {
		//壊れたカートは空として扱う
		return model.Cart{}, nil
	}
	cart := model.Cart{}
	for _, l := range stored {
		id, err := strconv.ParseInt(l.BookID, 10, 64)
		if err != nil || l.Quantity <= 0 {
			continue
		}
		cart = cart.Set(id, l.Quantity)
	}
	return cart, nil
}

func (s *SessionGormStore) SaveCart(ctx context.Context, sessionKey string, cart model.Cart) error {
	data, err := s.load(ctx, sessionKey)
	if err != nil {
		return err
	}

	stored := make([]storedCartLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		stored = append(stored, storedCartLine{BookID: strconv.FormatInt(l.BookID, 10), Quantity: l.Quantity})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	data[cartSessionKey] = raw

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	row := model.Session{
		Key:      sessionKey,
		Data:     string(encoded),
		ExpireAt: s.now().Add(s.ttl),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expire_at"}),
	}).Create(&row).Error
}

// 期限切れのセッションを消す
func (s *SessionGormStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expire_at <= ?", s.now()).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}

type storedCartLine struct {
	BookID   string `json:"book_id"`
	Quantity int64  `json:"quantity"`
}
