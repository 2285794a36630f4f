package repository

import (
	"context"

	"zajil/internal/domain/model"
)

// セッションキーごとのカート置き場。無ければ空のカートを返す
type CartStore interface {
	LoadCart(ctx context.Context, sessionKey string) (model.Cart, error)
	SaveCart(ctx context.Context, sessionKey string, cart model.Cart) error
}
